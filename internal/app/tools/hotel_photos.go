package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const (
	HotelPhotosName    = "hotel_photos"
	defaultHotelPhotos = 3
	maxHotelPhotos     = 5
)

// HotelPhotosTool lets the hotel specialist illustrate its pick.
type HotelPhotosTool struct {
	photos domain.PhotoSearcher
}

func NewHotelPhotosTool(photos domain.PhotoSearcher) *HotelPhotosTool {
	return &HotelPhotosTool{photos: photos}
}

func (t *HotelPhotosTool) Name() string {
	return HotelPhotosName
}

// Call expects an input with this shape:
//
//	{
//	  "city": "Paris",
//	  "hotel_name": "Ritz",   // optional
//	  "count": 3              // optional
//	}
func (t *HotelPhotosTool) Call(
	ctx context.Context,
	tctx ToolContext,
	input map[string]any,
) (map[string]any, error) {
	city := strings.TrimSpace(getString(input, "city"))
	if city == "" {
		return nil, fmt.Errorf("hotel_photos: missing city")
	}

	count := getInt(input, "count", defaultHotelPhotos)
	if count < 1 || count > maxHotelPhotos {
		count = defaultHotelPhotos
	}

	photos, err := t.photos.SearchHotelPhotos(ctx, city, getString(input, "hotel_name"), count)
	if err != nil {
		return nil, fmt.Errorf("hotel_photos: search failed: %w", err)
	}

	return map[string]any{
		"status":  "ok",
		"city":    city,
		"count":   len(photos),
		"photos":  photos,
		"summary": formatHotelPhotos(city, photos),
	}, nil
}

func formatHotelPhotos(city string, photos []domain.Photo) string {
	if len(photos) == 0 {
		return "❌ Aucune photo trouvée"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📸 PHOTOS HÔTEL %s\n\n", strings.ToUpper(city))
	for i, p := range photos {
		fmt.Fprintf(&b, "%d. %s\n   🔗 %s\n\n", i+1, p.Description, p.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
