package domain

import "strings"

// Dates is either RoundTripDates or OneWayDate. The interface is sealed so a
// return date can only exist on a round trip.
type Dates interface {
	FlightType() FlightType
	Departure() string
	// Return reports the return date and whether the trip has one.
	Return() (string, bool)

	sealed()
}

type RoundTripDates struct {
	departure string
	ret       string
}

// NewRoundTripDates trims both dates and fails if either is empty.
func NewRoundTripDates(departure, ret string) (RoundTripDates, error) {
	departure = strings.TrimSpace(departure)
	ret = strings.TrimSpace(ret)
	if departure == "" || ret == "" {
		return RoundTripDates{}, ErrInvalidDates
	}
	return RoundTripDates{departure: departure, ret: ret}, nil
}

func (d RoundTripDates) FlightType() FlightType { return FlightTypeRoundTrip }
func (d RoundTripDates) Departure() string      { return d.departure }
func (d RoundTripDates) Return() (string, bool) { return d.ret, true }
func (RoundTripDates) sealed()                  {}

type OneWayDate struct {
	departure string
}

func NewOneWayDate(departure string) (OneWayDate, error) {
	departure = strings.TrimSpace(departure)
	if departure == "" {
		return OneWayDate{}, ErrInvalidDates
	}
	return OneWayDate{departure: departure}, nil
}

func (d OneWayDate) FlightType() FlightType { return FlightTypeOneWay }
func (d OneWayDate) Departure() string      { return d.departure }
func (d OneWayDate) Return() (string, bool) { return "", false }
func (OneWayDate) sealed()                  {}

// Trip holds the fields collected so far. Zero values mean "not collected yet".
type Trip struct {
	Destination string
	Origin      string
	FlightType  FlightType
	Dates       Dates
	WantsHotel  bool
	Budget      string
}

// Request snapshots a complete trip for the search orchestrator.
func (t Trip) Request() (TripRequest, error) {
	if t.Destination == "" || t.Origin == "" || t.Dates == nil || t.Budget == "" {
		return TripRequest{}, ErrIncompleteTrip
	}
	if t.FlightType != t.Dates.FlightType() {
		return TripRequest{}, ErrIncompleteTrip
	}
	return TripRequest{
		destination: t.Destination,
		origin:      t.Origin,
		dates:       t.Dates,
		wantsHotel:  t.WantsHotel,
		budget:      t.Budget,
	}, nil
}

// TripRequest is an immutable, complete copy of a Trip.
type TripRequest struct {
	destination string
	origin      string
	dates       Dates
	wantsHotel  bool
	budget      string
}

func (r TripRequest) Destination() string    { return r.destination }
func (r TripRequest) Origin() string         { return r.origin }
func (r TripRequest) FlightType() FlightType { return r.dates.FlightType() }
func (r TripRequest) Departure() string      { return r.dates.Departure() }
func (r TripRequest) Return() (string, bool) { return r.dates.Return() }
func (r TripRequest) WantsHotel() bool       { return r.wantsHotel }
func (r TripRequest) Budget() string         { return r.budget }
