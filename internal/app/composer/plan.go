package composer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
)

// flightShare is what the hotel budget leaves for the flight.
const flightShare = 200

// PlanPackage builds the tasks for a trip: flights, hotel when wanted, then
// the package combining them. offers is the formatted flight search result.
func PlanPackage(trip domain.TripRequest, offers string) []*domain.Task {
	flightTask := &domain.Task{
		ID:             "flights",
		Role:           domain.RoleFlightSpecialist,
		Description:    flightDescription(trip, offers),
		ExpectedOutput: "Vol avec prix, horaires, durée",
	}
	tasks := []*domain.Task{flightTask}
	upstream := []*domain.Task{flightTask}

	if trip.WantsHotel() {
		hotelTask := &domain.Task{
			ID:             "hotel",
			Role:           domain.RoleHotelSpecialist,
			Description:    hotelDescription(trip),
			ExpectedOutput: "Hôtel avec prix, localisation et photos",
			Context:        []*domain.Task{flightTask},
			Tool:           tools.HotelPhotosName,
			ToolInput:      map[string]any{"city": trip.Destination()},
		}
		tasks = append(tasks, hotelTask)
		upstream = append(upstream, hotelTask)
	}

	scope := "seulement"
	if trip.WantsHotel() {
		scope = "+ hôtel"
	}
	tasks = append(tasks, &domain.Task{
		ID:             "package",
		Role:           domain.RolePackageCoordinator,
		Description:    fmt.Sprintf("Crée package complet avec vol %s + prix total", scope),
		ExpectedOutput: "Package voyage résumé",
		Context:        upstream,
	})
	return tasks
}

func flightDescription(trip domain.TripRequest, offers string) string {
	var b strings.Builder
	if ret, ok := trip.Return(); ok {
		fmt.Fprintf(&b, "Trouve meilleur vol ALLER-RETOUR de %s vers %s, dates %s - %s, budget %s€",
			trip.Origin(), trip.Destination(), trip.Departure(), ret, trip.Budget())
	} else {
		fmt.Fprintf(&b, "Trouve meilleur vol ALLER SIMPLE de %s vers %s, date %s, budget %s€",
			trip.Origin(), trip.Destination(), trip.Departure(), trip.Budget())
	}
	b.WriteString("\n\nOffres Amadeus disponibles :\n")
	b.WriteString(offers)
	return b.String()
}

func hotelDescription(trip domain.TripRequest) string {
	desc := fmt.Sprintf("Trouve meilleur hôtel à %s, coordonné avec vol", trip.Destination())
	if remaining, ok := RemainingHotelBudget(trip.Budget()); ok {
		desc += fmt.Sprintf(", budget restant environ %d€", remaining)
	}
	return desc
}

// RemainingHotelBudget is the budget minus the flight share, when the budget
// is a whole number.
func RemainingHotelBudget(budget string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(budget))
	if err != nil {
		return 0, false
	}
	return n - flightShare, true
}
