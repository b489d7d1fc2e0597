package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
)

type hotelQuery struct {
	city, name string
	count      int
}

type spyPhotos struct {
	queries []hotelQuery
	photos  []domain.Photo
	err     error
}

func (s *spyPhotos) SearchCityPhotos(context.Context, string, int) ([]domain.Photo, error) {
	return nil, errors.New("not used")
}

func (s *spyPhotos) SearchHotelPhotos(_ context.Context, city, name string, count int) ([]domain.Photo, error) {
	s.queries = append(s.queries, hotelQuery{city, name, count})
	return s.photos, s.err
}

func TestHotelPhotosTool(t *testing.T) {
	spy := &spyPhotos{photos: []domain.Photo{
		{URL: "https://img/1", Description: "Lobby"},
		{URL: "https://img/2", Description: "Suite"},
	}}
	tool := tools.NewHotelPhotosTool(spy)

	out, err := tool.Call(context.Background(), tools.ToolContext{TaskID: "hotel"}, map[string]any{
		"city":       "Paris",
		"hotel_name": "Ritz",
		"count":      float64(2),
	})
	require.NoError(t, err)

	require.Len(t, spy.queries, 1)
	assert.Equal(t, hotelQuery{"Paris", "Ritz", 2}, spy.queries[0])
	assert.Equal(t, 2, out["count"])

	summary := tools.Summary(out)
	assert.Contains(t, summary, "📸 PHOTOS HÔTEL PARIS")
	assert.Contains(t, summary, "1. Lobby\n   🔗 https://img/1")
	assert.Contains(t, summary, "2. Suite")
}

func TestHotelPhotosToolDefaults(t *testing.T) {
	spy := &spyPhotos{}
	tool := tools.NewHotelPhotosTool(spy)

	out, err := tool.Call(context.Background(), tools.ToolContext{}, map[string]any{"city": "Rome", "count": 40})
	require.NoError(t, err)

	assert.Equal(t, hotelQuery{"Rome", "", 3}, spy.queries[0])
	assert.Equal(t, "❌ Aucune photo trouvée", tools.Summary(out))
}

func TestHotelPhotosToolErrors(t *testing.T) {
	spy := &spyPhotos{err: errors.New("unsplash down")}
	tool := tools.NewHotelPhotosTool(spy)

	_, err := tool.Call(context.Background(), tools.ToolContext{}, map[string]any{})
	assert.Error(t, err)
	assert.Empty(t, spy.queries, "no search without a city")

	_, err = tool.Call(context.Background(), tools.ToolContext{}, map[string]any{"city": "Rome"})
	assert.ErrorContains(t, err, "unsplash down")
}

func TestRegistrySkipsNil(t *testing.T) {
	r := tools.NewRegistry(nil, tools.NewHotelPhotosTool(&spyPhotos{}))

	assert.Len(t, r, 1)
	assert.Contains(t, r, tools.HotelPhotosName)
}
