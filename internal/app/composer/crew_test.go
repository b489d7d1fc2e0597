package composer_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/app/composer"
	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
)

type call struct {
	prompt  string
	persona domain.Persona
}

type scriptedLLM struct {
	mu     sync.Mutex
	calls  []call
	failOn string
}

func (s *scriptedLLM) GenerateReply(_ context.Context, prompt string, p domain.Persona) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{prompt: prompt, persona: p})
	if s.failOn != "" && p.Role == s.failOn {
		return "", errors.New("model unavailable")
	}
	return "output of " + p.Role, nil
}

func testPersonas() map[domain.AgentRole]domain.Persona {
	return map[domain.AgentRole]domain.Persona{
		domain.RoleFlightSpecialist:   {Role: "flights"},
		domain.RoleHotelSpecialist:    {Role: "hotels"},
		domain.RolePackageCoordinator: {Role: "coordinator"},
	}
}

func roundTrip(t *testing.T, hotel bool, budget string) domain.TripRequest {
	t.Helper()
	dates, err := domain.NewRoundTripDates("28/01", "30/01")
	require.NoError(t, err)
	req, err := domain.Trip{
		Destination: "Paris",
		Origin:      "Casablanca",
		FlightType:  domain.FlightTypeRoundTrip,
		Dates:       dates,
		WantsHotel:  hotel,
		Budget:      budget,
	}.Request()
	require.NoError(t, err)
	return req
}

func TestComposeRunsTasksInOrderWithContext(t *testing.T) {
	fake := &scriptedLLM{}
	crew := composer.NewCrewWithPersonas(fake, testPersonas())

	out, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, true, "500"), "1. AT - 212.40€"))
	require.NoError(t, err)
	assert.Equal(t, "output of coordinator", out)

	require.Len(t, fake.calls, 3)
	assert.Equal(t, "flights", fake.calls[0].persona.Role)
	assert.Equal(t, "hotels", fake.calls[1].persona.Role)
	assert.Equal(t, "coordinator", fake.calls[2].persona.Role)

	assert.Contains(t, fake.calls[0].prompt, "1. AT - 212.40€")
	assert.Contains(t, fake.calls[1].prompt, "output of flights")
	assert.Contains(t, fake.calls[2].prompt, "output of flights")
	assert.Contains(t, fake.calls[2].prompt, "output of hotels")
}

func TestComposeWithoutHotel(t *testing.T) {
	fake := &scriptedLLM{}
	crew := composer.NewCrewWithPersonas(fake, testPersonas())

	_, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, false, "200"), "offers"))
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "flights", fake.calls[0].persona.Role)
	assert.Equal(t, "coordinator", fake.calls[1].persona.Role)
	assert.Contains(t, fake.calls[1].prompt, "vol seulement")
}

func TestComposeStopsOnAgentError(t *testing.T) {
	fake := &scriptedLLM{failOn: "hotels"}
	crew := composer.NewCrewWithPersonas(fake, testPersonas())

	_, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, true, "500"), "offers"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hotel_specialist")
	assert.Len(t, fake.calls, 2, "the coordinator never runs")
}

type hotelPhotos struct {
	mu     sync.Mutex
	cities []string
	err    error
}

func (h *hotelPhotos) SearchCityPhotos(context.Context, string, int) ([]domain.Photo, error) {
	return nil, nil
}

func (h *hotelPhotos) SearchHotelPhotos(_ context.Context, city, _ string, _ int) ([]domain.Photo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cities = append(h.cities, city)
	if h.err != nil {
		return nil, h.err
	}
	return []domain.Photo{{URL: "https://img/hotel", Description: "Façade"}}, nil
}

func TestHotelSpecialistUsesPhotoTool(t *testing.T) {
	fake := &scriptedLLM{}
	photos := &hotelPhotos{}
	crew := composer.NewCrewWithPersonas(fake, testPersonas(), tools.NewHotelPhotosTool(photos))

	_, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, true, "500"), "offers"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Paris"}, photos.cities)
	require.Len(t, fake.calls, 3)
	assert.NotContains(t, fake.calls[0].prompt, "PHOTOS HÔTEL")
	assert.Contains(t, fake.calls[1].prompt, "Résultat de l'outil hotel_photos")
	assert.Contains(t, fake.calls[1].prompt, "📸 PHOTOS HÔTEL PARIS")
	assert.Contains(t, fake.calls[1].prompt, "https://img/hotel")
}

func TestPhotoToolNotUsedWithoutHotel(t *testing.T) {
	photos := &hotelPhotos{}
	crew := composer.NewCrewWithPersonas(&scriptedLLM{}, testPersonas(), tools.NewHotelPhotosTool(photos))

	_, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, false, "200"), "offers"))
	require.NoError(t, err)
	assert.Empty(t, photos.cities)
}

func TestPhotoToolFailureDoesNotStopComposition(t *testing.T) {
	fake := &scriptedLLM{}
	photos := &hotelPhotos{err: errors.New("unsplash down")}
	crew := composer.NewCrewWithPersonas(fake, testPersonas(), tools.NewHotelPhotosTool(photos))

	out, err := crew.Compose(context.Background(), composer.PlanPackage(roundTrip(t, true, "500"), "offers"))
	require.NoError(t, err)
	assert.Equal(t, "output of coordinator", out)
	assert.NotContains(t, fake.calls[1].prompt, "Résultat de l'outil")
}

func TestComposeRejectsInvalidPlans(t *testing.T) {
	crew := composer.NewCrewWithPersonas(&scriptedLLM{}, testPersonas())

	_, err := crew.Compose(context.Background(), nil)
	assert.ErrorIs(t, err, composer.ErrInvalidPlan)

	later := &domain.Task{ID: "later", Role: domain.RoleFlightSpecialist}
	first := &domain.Task{ID: "first", Role: domain.RolePackageCoordinator, Context: []*domain.Task{later}}
	_, err = crew.Compose(context.Background(), []*domain.Task{first, later})
	assert.ErrorIs(t, err, composer.ErrInvalidPlan)

	_, err = crew.Compose(context.Background(), []*domain.Task{{ID: "x", Role: "pilot"}})
	assert.ErrorIs(t, err, composer.ErrInvalidPlan)
}

func TestPlanPackageHotelBudget(t *testing.T) {
	tasks := composer.PlanPackage(roundTrip(t, true, "500"), "offers")
	require.Len(t, tasks, 3)
	assert.Contains(t, tasks[1].Description, "budget restant environ 300€")

	assert.Equal(t, tools.HotelPhotosName, tasks[1].Tool)
	assert.Equal(t, "Paris", tasks[1].ToolInput["city"])
	assert.Empty(t, tasks[0].Tool)

	tasks = composer.PlanPackage(roundTrip(t, true, "cinq cents"), "offers")
	assert.False(t, strings.Contains(tasks[1].Description, "budget restant"))
}

func TestPlanPackageOneWay(t *testing.T) {
	date, err := domain.NewOneWayDate("28/01")
	require.NoError(t, err)
	req, err := domain.Trip{
		Destination: "Paris",
		Origin:      "Casablanca",
		FlightType:  domain.FlightTypeOneWay,
		Dates:       date,
		Budget:      "200",
	}.Request()
	require.NoError(t, err)

	tasks := composer.PlanPackage(req, "offers")
	require.Len(t, tasks, 2)
	assert.Contains(t, tasks[0].Description, "ALLER SIMPLE")
	assert.Contains(t, tasks[0].Description, "date 28/01")
}

func TestRemainingHotelBudget(t *testing.T) {
	n, ok := composer.RemainingHotelBudget(" 750 ")
	assert.True(t, ok)
	assert.Equal(t, 550, n)

	_, ok = composer.RemainingHotelBudget("beaucoup")
	assert.False(t, ok)
}
