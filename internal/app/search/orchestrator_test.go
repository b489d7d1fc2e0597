package search_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/adapters/llm"
	"github.com/PabloGalante/travelbot/internal/adapters/messaging"
	"github.com/PabloGalante/travelbot/internal/app/composer"
	"github.com/PabloGalante/travelbot/internal/app/search"
	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
)

var fixedNow = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

type fakeFlights struct {
	mu      sync.Mutex
	queries []domain.FlightQuery
	err     error
}

func (f *fakeFlights) Authenticate(context.Context) error { return nil }

func (f *fakeFlights) SearchFlights(_ context.Context, q domain.FlightQuery) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return "", f.err
	}
	return "1. AT - 212.40€", nil
}

type fakePhotos struct {
	photos      []domain.Photo
	err         error
	hotelCities []string
}

func (f *fakePhotos) SearchCityPhotos(_ context.Context, _ string, count int) ([]domain.Photo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.photos, nil
}

func (f *fakePhotos) SearchHotelPhotos(_ context.Context, city, _ string, _ int) ([]domain.Photo, error) {
	f.hotelCities = append(f.hotelCities, city)
	return photosN(1), nil
}

type fakeComposer struct {
	result string
	err    error
	tasks  []*domain.Task
}

func (f *fakeComposer) Compose(_ context.Context, tasks []*domain.Task) (string, error) {
	f.tasks = tasks
	return f.result, f.err
}

func photosN(n int) []domain.Photo {
	out := make([]domain.Photo, n)
	for i := range out {
		out[i] = domain.Photo{URL: "https://img/" + string(rune('a'+i))}
	}
	return out
}

func roundTripJob(t *testing.T) domain.SearchJob {
	t.Helper()
	dates, err := domain.NewRoundTripDates("28/01", "30/01")
	require.NoError(t, err)
	req, err := domain.Trip{
		Destination: "Paris",
		Origin:      "Casablanca",
		FlightType:  domain.FlightTypeRoundTrip,
		Dates:       dates,
		WantsHotel:  true,
		Budget:      "500",
	}.Request()
	require.NoError(t, err)
	return domain.SearchJob{ID: "s1", UserID: "whatsapp:+212600000000", Trip: req}
}

type harness struct {
	flights  *fakeFlights
	photos   *fakePhotos
	composer *fakeComposer
	msgs     *messaging.Recorder
	orch     *search.Orchestrator
}

func newHarness() *harness {
	h := &harness{
		flights:  &fakeFlights{},
		photos:   &fakePhotos{photos: photosN(3)},
		composer: &fakeComposer{result: "Package Paris 480€"},
		msgs:     messaging.NewRecorder(),
	}
	h.orch = search.NewOrchestrator(h.flights, h.photos, h.composer, h.msgs, nil, search.Options{
		Now: func() time.Time { return fixedNow },
	})
	return h
}

func bodies(msgs []domain.OutboundMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestRunSendsMessagesInOrder(t *testing.T) {
	h := newHarness()
	job := roundTripJob(t)

	result, err := h.orch.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "Package Paris 480€", result)

	msgs := h.msgs.Messages()
	require.Len(t, msgs, 6)
	assert.True(t, strings.HasPrefix(msgs[0].Body, "⚙️ RECHERCHE EN COURS"))
	assert.Contains(t, msgs[0].Body, "les meilleurs hôtels")
	assert.True(t, strings.HasPrefix(msgs[1].Body, search.ResultHeader))
	assert.Contains(t, msgs[1].Body, "Package Paris 480€")
	assert.Equal(t, "📸 Photo 1/3 - Paris", msgs[2].Body)
	assert.Equal(t, "https://img/a", msgs[2].MediaURL)
	assert.Equal(t, "📸 Photo 3/3 - Paris", msgs[4].Body)
	assert.Equal(t, "https://img/c", msgs[4].MediaURL)
	assert.Equal(t, search.MenuMessage, msgs[5].Body)

	for _, m := range msgs {
		assert.Equal(t, job.UserID, m.To)
	}
}

func TestRunBuildsFlightQuery(t *testing.T) {
	h := newHarness()

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	require.Len(t, h.flights.queries, 1)
	q := h.flights.queries[0]
	assert.Equal(t, "CMN", q.Origin)
	assert.Equal(t, "CDG", q.Destination)
	assert.Equal(t, "2026-01-28", q.Departure)
	assert.Equal(t, "2026-01-30", q.Return)
	assert.Equal(t, 1, q.Adults)

	require.Len(t, h.composer.tasks, 3)
	assert.Contains(t, h.composer.tasks[0].Description, "1. AT - 212.40€")
}

func TestRunCapsPhotosAtThree(t *testing.T) {
	h := newHarness()
	h.photos.photos = photosN(5)

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	var photos []domain.OutboundMessage
	for _, m := range h.msgs.Messages() {
		if m.MediaURL != "" {
			photos = append(photos, m)
		}
	}
	require.Len(t, photos, 3)
	assert.Equal(t, "📸 Photo 2/3 - Paris", photos[1].Body)
}

func TestRunWithFewerPhotos(t *testing.T) {
	h := newHarness()
	h.photos.photos = photosN(2)

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	assert.Contains(t, bodies(h.msgs.Messages()), "📸 Photo 2/2 - Paris")
}

func TestRunPhotoSearchFailureStillSendsMenu(t *testing.T) {
	h := newHarness()
	h.photos.err = errors.New("unsplash down")

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	msgs := h.msgs.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, search.MenuMessage, msgs[2].Body)
}

func TestRunContinuesAfterPhotoSendError(t *testing.T) {
	h := newHarness()
	h.msgs.FailWhen = func(msg domain.OutboundMessage) error {
		if msg.MediaURL == "https://img/a" {
			return errors.New("media rejected")
		}
		return nil
	}

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	all := bodies(h.msgs.Messages())
	assert.Contains(t, all, "📸 Photo 2/3 - Paris")
	assert.Contains(t, all, "📸 Photo 3/3 - Paris")
	assert.Equal(t, search.MenuMessage, all[len(all)-1])
}

func TestRunFlightFailure(t *testing.T) {
	h := newHarness()
	h.flights.err = errors.New("amadeus 500")

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.Error(t, err)
	assert.Nil(t, h.composer.tasks, "composer is not called")

	msgs := h.msgs.Messages()
	require.Len(t, msgs, 1, "only the acknowledgment went out")
	assert.NotContains(t, bodies(msgs), search.MenuMessage)
}

func TestRunComposerFailure(t *testing.T) {
	h := newHarness()
	h.composer.err = errors.New("model unavailable")

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.Error(t, err)
	assert.Len(t, h.msgs.Messages(), 1)
}

func TestRunRejectsUnparseableDates(t *testing.T) {
	h := newHarness()
	dates, err := domain.NewRoundTripDates("demain", "après-demain")
	require.NoError(t, err)
	req, err := domain.Trip{
		Destination: "Paris", Origin: "Casablanca",
		FlightType: domain.FlightTypeRoundTrip, Dates: dates, Budget: "500",
	}.Request()
	require.NoError(t, err)

	_, err = h.orch.Run(context.Background(), domain.SearchJob{ID: "s", UserID: "u", Trip: req})
	require.Error(t, err)
	assert.Empty(t, h.flights.queries)
}

func TestResultIsTruncated(t *testing.T) {
	h := newHarness()
	h.composer.result = strings.Repeat("é", 1500)

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	body := h.msgs.Messages()[1].Body
	assert.Equal(t, 1200, strings.Count(body, "é"))
}

func TestFailSendsSingleFailureMessage(t *testing.T) {
	h := newHarness()
	h.orch.Fail(context.Background(), roundTripJob(t), errors.New("boom"))

	msgs := h.msgs.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, search.FailureMessage, msgs[0].Body)
}

func flightOnlyJob(t *testing.T) domain.SearchJob {
	t.Helper()
	job := roundTripJob(t)
	req, err := domain.Trip{
		Destination: "Paris",
		Origin:      "Casablanca",
		FlightType:  domain.FlightTypeRoundTrip,
		Dates:       mustRoundTrip(t),
		Budget:      "500",
	}.Request()
	require.NoError(t, err)
	job.Trip = req
	return job
}

func mustRoundTrip(t *testing.T) domain.RoundTripDates {
	t.Helper()
	dates, err := domain.NewRoundTripDates("28/01", "30/01")
	require.NoError(t, err)
	return dates
}

func TestRunSearchesHotelPhotosOnlyForHotelTrips(t *testing.T) {
	photos := &fakePhotos{photos: photosN(3)}
	crew := composer.NewCrew(llm.NewMockLLM(), tools.NewHotelPhotosTool(photos))
	orch := search.NewOrchestrator(&fakeFlights{}, photos, crew, messaging.NewRecorder(), nil, search.Options{
		Now: func() time.Time { return fixedNow },
	})

	_, err := orch.Run(context.Background(), flightOnlyJob(t))
	require.NoError(t, err)
	assert.Empty(t, photos.hotelCities)

	_, err = orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, photos.hotelCities)
}

func TestRunSkipsDeliveryOnceAbandoned(t *testing.T) {
	h := newHarness()
	h.orch = search.NewOrchestrator(h.flights, h.photos, h.composer, h.msgs, nil, search.Options{
		Now:    func() time.Time { return fixedNow },
		Active: func(context.Context, domain.SearchJob) bool { return false },
	})

	result, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err, "an abandoned search is not a failure")
	assert.Equal(t, "Package Paris 480€", result)

	msgs := h.msgs.Messages()
	require.Len(t, msgs, 1, "only the acknowledgment went out")
	assert.NotContains(t, bodies(msgs), search.MenuMessage)
}

func TestRunStopsPhotosWhenUserRestarts(t *testing.T) {
	h := newHarness()
	checks := 0
	h.orch = search.NewOrchestrator(h.flights, h.photos, h.composer, h.msgs, nil, search.Options{
		Now: func() time.Time { return fixedNow },
		// active for the result and the first photo only
		Active: func(context.Context, domain.SearchJob) bool {
			checks++
			return checks <= 2
		},
	})

	_, err := h.orch.Run(context.Background(), roundTripJob(t))
	require.NoError(t, err)

	all := bodies(h.msgs.Messages())
	require.Len(t, all, 3)
	assert.True(t, strings.HasPrefix(all[1], search.ResultHeader))
	assert.Equal(t, "📸 Photo 1/3 - Paris", all[2])
	assert.NotContains(t, all, search.MenuMessage)
}
