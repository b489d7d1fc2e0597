package packages

import (
	"context"
	"errors"

	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service holds the logic of reading accepted packages.
type Service struct {
	store domain.PackageStore
}

// NewService creates a packages service from a PackageStore.
func NewService(store domain.PackageStore) *Service {
	return &Service{
		store: store,
	}
}

// ListUserPackages returns the last `limit` packages a user accepted, newest
// first. If limit <= 0, a reasonable default value is used.
func (s *Service) ListUserPackages(ctx context.Context, userID domain.UserID, limit int) ([]*domain.AcceptedPackage, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	if s.store == nil {
		return []*domain.AcceptedPackage{}, nil
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	pkgs, err := s.store.ListPackagesByUser(ctx, userID, limit)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list packages", "user_id", userID, "error", err)
		return nil, err
	}
	return pkgs, nil
}
