package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/domain"
)

func TestRoundTripDatesRequireBothDates(t *testing.T) {
	_, err := domain.NewRoundTripDates("28/01", "  ")
	require.ErrorIs(t, err, domain.ErrInvalidDates)

	d, err := domain.NewRoundTripDates(" 28/01 ", "30/01")
	require.NoError(t, err)
	ret, ok := d.Return()
	assert.True(t, ok)
	assert.Equal(t, "28/01", d.Departure())
	assert.Equal(t, "30/01", ret)
	assert.Equal(t, domain.FlightTypeRoundTrip, d.FlightType())
}

func TestOneWayHasNoReturn(t *testing.T) {
	d, err := domain.NewOneWayDate("28/01")
	require.NoError(t, err)

	trip := domain.Trip{
		Destination: "Paris",
		Origin:      "Casablanca",
		FlightType:  domain.FlightTypeOneWay,
		Dates:       d,
		Budget:      "200",
	}
	req, err := trip.Request()
	require.NoError(t, err)

	ret, ok := req.Return()
	assert.False(t, ok)
	assert.Empty(t, ret)
	assert.Equal(t, domain.FlightTypeOneWay, req.FlightType())
}

func TestRequestRejectsIncompleteTrip(t *testing.T) {
	d, _ := domain.NewOneWayDate("28/01")

	cases := map[string]domain.Trip{
		"missing budget": {Destination: "Paris", Origin: "Rabat", FlightType: domain.FlightTypeOneWay, Dates: d},
		"missing dates":  {Destination: "Paris", Origin: "Rabat", FlightType: domain.FlightTypeOneWay, Budget: "1"},
		"type mismatch":  {Destination: "Paris", Origin: "Rabat", FlightType: domain.FlightTypeRoundTrip, Dates: d, Budget: "1"},
	}
	for name, trip := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := trip.Request()
			assert.ErrorIs(t, err, domain.ErrIncompleteTrip)
		})
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := &domain.Session{UserID: "u", Resume: &domain.ResumePoint{Step: domain.StepMenu}}
	c := s.Clone()
	c.Resume.Step = domain.StepConfirm

	assert.Equal(t, domain.StepMenu, s.Resume.Step)
}
