package domain

import "time"

type UserID string
type SearchID string
type PackageID string

type Timestamp = time.Time

// Step is the stage of a conversation with one user.
type Step string

const (
	StepIntro          Step = "intro"
	StepDestination    Step = "destination"
	StepOrigin         Step = "depart"
	StepFlightType     Step = "flight_type"
	StepDatesRoundTrip Step = "dates_round_trip"
	StepDateOneWay     Step = "date_one_way"
	StepHotelChoice    Step = "hotel_choice"
	StepBudget         Step = "budget"
	StepConfirm        Step = "confirm"
	StepWaiting        Step = "waiting"
	StepMenu           Step = "menu"
)

type FlightType string

const (
	FlightTypeRoundTrip FlightType = "round_trip"
	FlightTypeOneWay    FlightType = "one_way"
)

// Label is the user-facing name of the flight type.
func (f FlightType) Label() string {
	switch f {
	case FlightTypeRoundTrip:
		return "Aller-Retour"
	case FlightTypeOneWay:
		return "Aller-Simple"
	default:
		return ""
	}
}
