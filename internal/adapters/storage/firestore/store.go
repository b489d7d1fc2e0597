package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const packagesCollection = "accepted_packages"

// Store archives accepted packages in Firestore. Sessions are never written
// here; they stay in process memory.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) packagesCol() *firestore.CollectionRef {
	return s.client.Collection(packagesCollection)
}

func (s *Store) packageDoc(id domain.PackageID) *firestore.DocumentRef {
	return s.packagesCol().Doc(string(id))
}

type packageDoc struct {
	UserID      string    `firestore:"user_id"`
	Destination string    `firestore:"destination"`
	Origin      string    `firestore:"origin"`
	FlightType  string    `firestore:"flight_type"`
	Departure   string    `firestore:"departure"`
	Return      string    `firestore:"return"`
	WantsHotel  bool      `firestore:"wants_hotel"`
	Budget      string    `firestore:"budget"`
	Itinerary   string    `firestore:"itinerary"`
	AcceptedAt  time.Time `firestore:"accepted_at"`
}

func toDoc(p *domain.AcceptedPackage) packageDoc {
	return packageDoc{
		UserID:      string(p.UserID),
		Destination: p.Destination,
		Origin:      p.Origin,
		FlightType:  string(p.FlightType),
		Departure:   p.Departure,
		Return:      p.Return,
		WantsHotel:  p.WantsHotel,
		Budget:      p.Budget,
		Itinerary:   p.Itinerary,
		AcceptedAt:  p.AcceptedAt,
	}
}

func fromDoc(id string, d packageDoc) *domain.AcceptedPackage {
	return &domain.AcceptedPackage{
		ID:          domain.PackageID(id),
		UserID:      domain.UserID(d.UserID),
		Destination: d.Destination,
		Origin:      d.Origin,
		FlightType:  domain.FlightType(d.FlightType),
		Departure:   d.Departure,
		Return:      d.Return,
		WantsHotel:  d.WantsHotel,
		Budget:      d.Budget,
		Itinerary:   d.Itinerary,
		AcceptedAt:  d.AcceptedAt,
	}
}

// SavePackage implements domain.PackageStore. Saving an existing ID replaces it.
func (s *Store) SavePackage(ctx context.Context, pkg *domain.AcceptedPackage) error {
	if pkg == nil {
		return nil
	}
	if pkg.ID == "" {
		pkg.ID = domain.PackageID(uuid.NewString())
	}

	doc := toDoc(pkg)
	_, err := s.packageDoc(pkg.ID).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		_, err = s.packageDoc(pkg.ID).Set(ctx, doc)
	}
	if err != nil {
		return fmt.Errorf("firestore SavePackage: %w", err)
	}
	return nil
}

// ListPackagesByUser returns the newest packages first.
func (s *Store) ListPackagesByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.AcceptedPackage, error) {
	q := s.packagesCol().Where("user_id", "==", string(userID)).OrderBy("accepted_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.AcceptedPackage{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListPackagesByUser: %w", err)
		}

		var doc packageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode packageDoc: %w", err)
		}

		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}
