package photos_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/adapters/photos"
)

const resultsJSON = `{
  "results": [
    {"alt_description": "Eiffel tower at dusk", "urls": {"regular": "https://img/1", "thumb": "https://img/1t"}, "user": {"name": "Ana"}},
    {"alt_description": null, "urls": {"regular": "https://img/2", "thumb": "https://img/2t"}, "user": {"name": "Ben"}},
    {"alt_description": "Louvre", "urls": {"regular": "https://img/3", "thumb": "https://img/3t"}, "user": {"name": "Chloé"}}
  ]
}`

func newServer(t *testing.T, gotQuery *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" || r.Header.Get("Authorization") != "Client-ID key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		*gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resultsJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchCityPhotos(t *testing.T) {
	var query string
	srv := newServer(t, &query)
	u := photos.NewUnsplashWithClient("key", srv.URL, srv.Client())

	got, err := u.SearchCityPhotos(context.Background(), "Paris", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Paris landmarks architecture", query)
	assert.Equal(t, "https://img/1", got[0].URL)
	assert.Equal(t, "https://img/1t", got[0].ThumbnailURL)
	assert.Equal(t, "Ana", got[0].Attribution)
	assert.Equal(t, "Paris", got[1].Description, "missing alt text falls back to the city")
}

func TestSearchHotelPhotosQuery(t *testing.T) {
	var query string
	srv := newServer(t, &query)
	u := photos.NewUnsplashWithClient("key", srv.URL, srv.Client())

	_, err := u.SearchHotelPhotos(context.Background(), "Paris", "", 3)
	require.NoError(t, err)
	assert.Equal(t, "luxury hotel Paris", query)

	got, err := u.SearchHotelPhotos(context.Background(), "Paris", "Ritz", 2)
	require.NoError(t, err)
	assert.Equal(t, "Ritz hotel Paris", query)
	assert.Len(t, got, 2)
	assert.Equal(t, "Hôtel", got[1].Description)
}

func TestSearchFailsWithoutKey(t *testing.T) {
	u := photos.NewUnsplash("", "")
	got, err := u.SearchCityPhotos(context.Background(), "Paris", 3)
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestSearchSurfacesHTTPErrors(t *testing.T) {
	var query string
	srv := newServer(t, &query)
	u := photos.NewUnsplashWithClient("wrong", srv.URL, srv.Client())

	got, err := u.SearchCityPhotos(context.Background(), "Paris", 3)
	assert.Error(t, err)
	assert.Empty(t, got)
}
