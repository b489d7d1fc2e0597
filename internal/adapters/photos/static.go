package photos

import (
	"context"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// Static serves photos from a fixed list. With no photos configured it
// behaves as a photo search that never finds anything, which is what local
// mode uses when no Unsplash key is set.
type Static struct {
	Photos []domain.Photo
}

func (s Static) SearchCityPhotos(ctx context.Context, city string, count int) ([]domain.Photo, error) {
	return s.take(ctx, count)
}

func (s Static) SearchHotelPhotos(ctx context.Context, city, hotelName string, count int) ([]domain.Photo, error) {
	return s.take(ctx, count)
}

func (s Static) take(ctx context.Context, count int) ([]domain.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count > len(s.Photos) {
		count = len(s.Photos)
	}
	if count <= 0 {
		return nil, nil
	}
	out := make([]domain.Photo, count)
	copy(out, s.Photos[:count])
	return out, nil
}
