package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// PackageStore is an in-memory implementation of domain.PackageStore.
// It is NOT persistent and is only suitable for development / local mode.
type PackageStore struct {
	mu       sync.RWMutex
	packages map[domain.PackageID]*domain.AcceptedPackage
	byUserID map[domain.UserID][]domain.PackageID
}

func NewPackageStore() *PackageStore {
	return &PackageStore{
		packages: make(map[domain.PackageID]*domain.AcceptedPackage),
		byUserID: make(map[domain.UserID][]domain.PackageID),
	}
}

// SavePackage archives a package, assigning an ID when missing.
func (s *PackageStore) SavePackage(_ context.Context, pkg *domain.AcceptedPackage) error {
	if pkg == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pkg.ID == "" {
		pkg.ID = domain.PackageID(uuid.NewString())
	}

	cp := *pkg
	if _, exists := s.packages[cp.ID]; !exists {
		s.byUserID[cp.UserID] = append(s.byUserID[cp.UserID], cp.ID)
	}
	s.packages[cp.ID] = &cp

	return nil
}

// ListPackagesByUser returns the last `limit` packages for a user, newest
// first. If limit <= 0, returns all.
func (s *PackageStore) ListPackagesByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.AcceptedPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserID[userID]
	if len(ids) == 0 {
		return []*domain.AcceptedPackage{}, nil
	}

	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}

	out := make([]*domain.AcceptedPackage, 0, limit)
	for i := len(ids) - 1; i >= len(ids)-limit; i-- {
		if p, ok := s.packages[ids[i]]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}

	return out, nil
}
