package photos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const (
	searchPath   = "/search/photos"
	maxErrorBody = 4 << 10
)

// Unsplash implements domain.PhotoSearcher with the Unsplash search API.
// An access key is required via the Client-ID authorization scheme.
type Unsplash struct {
	AccessKey string
	baseURL   string
	client    *http.Client
}

// NewUnsplash constructs an Unsplash provider with a 10s timeout.
func NewUnsplash(accessKey, baseURL string) *Unsplash {
	return NewUnsplashWithClient(accessKey, baseURL, &http.Client{Timeout: 10 * time.Second})
}

// NewUnsplashWithClient constructs an Unsplash provider using the supplied HTTP client.
func NewUnsplashWithClient(accessKey, baseURL string, client *http.Client) *Unsplash {
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &Unsplash{AccessKey: accessKey, baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// SearchCityPhotos looks for landmark pictures of the city.
func (u *Unsplash) SearchCityPhotos(ctx context.Context, city string, count int) ([]domain.Photo, error) {
	return u.search(ctx, city+" landmarks architecture", count, city)
}

// SearchHotelPhotos looks for a named hotel, or for luxury hotels in the city.
func (u *Unsplash) SearchHotelPhotos(ctx context.Context, city, hotelName string, count int) ([]domain.Photo, error) {
	query := "luxury hotel " + city
	if strings.TrimSpace(hotelName) != "" {
		query = hotelName + " hotel " + city
	}
	return u.search(ctx, query, count, "Hôtel")
}

func (u *Unsplash) search(ctx context.Context, query string, count int, fallbackDescription string) ([]domain.Photo, error) {
	if strings.TrimSpace(u.AccessKey) == "" {
		return nil, errors.New("unsplash: access key is required")
	}
	if count < 1 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unsplash: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unsplash: decode: %w", err)
	}

	photos := make([]domain.Photo, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URLs.Regular == "" {
			continue
		}
		desc := r.AltDescription
		if desc == "" {
			desc = fallbackDescription
		}
		photos = append(photos, domain.Photo{
			URL:          r.URLs.Regular,
			ThumbnailURL: r.URLs.Thumb,
			Description:  desc,
			Attribution:  r.User.Name,
		})
		if len(photos) == count {
			break
		}
	}
	return photos, nil
}

type searchResponse struct {
	Results []struct {
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}
