package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrIncompleteTrip  = errors.New("trip is missing required fields")
	ErrInvalidDates    = errors.New("invalid travel dates")
	ErrSearchInFlight  = errors.New("a search is already running for this session")
)
