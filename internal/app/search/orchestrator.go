package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/PabloGalante/travelbot/internal/app/airports"
	"github.com/PabloGalante/travelbot/internal/app/composer"
	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

const (
	defaultMaxResultLength = 1200
	maxPhotos              = 3
	offersPerSearch        = 5
)

type Options struct {
	// PhotoDelay is the minimum gap between two photo messages.
	PhotoDelay      time.Duration
	MaxResultLength int
	// Now is used to resolve dates without a year.
	Now func() time.Time
	// Active reports whether the session still waits for job. Deliveries stop
	// once it returns false; nil means always active.
	Active func(ctx context.Context, job domain.SearchJob) bool
}

// Orchestrator runs one search job: flights, composition, photos, menu. Every
// user-visible step goes out through the messenger.
type Orchestrator struct {
	flights   domain.FlightSearcher
	photos    domain.PhotoSearcher
	composer  domain.Composer
	messenger domain.Messenger
	airports  *airports.Resolver
	opts      Options
}

func NewOrchestrator(
	flights domain.FlightSearcher,
	photos domain.PhotoSearcher,
	comp domain.Composer,
	messenger domain.Messenger,
	resolver *airports.Resolver,
	opts Options,
) *Orchestrator {
	if opts.MaxResultLength <= 0 {
		opts.MaxResultLength = defaultMaxResultLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if resolver == nil {
		resolver = airports.NewResolver(airports.DefaultCodes)
	}
	return &Orchestrator{
		flights:   flights,
		photos:    photos,
		composer:  comp,
		messenger: messenger,
		airports:  resolver,
		opts:      opts,
	}
}

// Run sends the acknowledgment, the package, the photos and the menu. It
// returns an error only when flights or composition fail; delivery errors
// are logged.
func (o *Orchestrator) Run(ctx context.Context, job domain.SearchJob) (string, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", job.UserID, "search_id", job.ID)
	trip := job.Trip

	o.send(ctx, job.UserID, acknowledgmentMessage(trip.WantsHotel()), "")

	query, err := o.flightQuery(trip)
	if err != nil {
		return "", err
	}

	start := time.Now()
	offers, err := o.flights.SearchFlights(ctx, query)
	if err != nil {
		return "", fmt.Errorf("searching flights %s-%s: %w", query.Origin, query.Destination, err)
	}
	log.Info("flights found", "origin", query.Origin, "destination", query.Destination, "elapsed_ms", time.Since(start).Milliseconds())

	result, err := o.composer.Compose(ctx, composer.PlanPackage(trip, offers))
	if err != nil {
		return "", fmt.Errorf("composing package: %w", err)
	}

	if !o.active(ctx, job) {
		return result, nil
	}
	o.send(ctx, job.UserID, resultMessage(result, o.opts.MaxResultLength), "")
	o.deliverPhotos(ctx, job, trip.Destination())
	if !o.active(ctx, job) {
		return result, nil
	}
	o.send(ctx, job.UserID, MenuMessage, "")

	return result, nil
}

// active logs when the user moved on and the remaining deliveries are skipped.
func (o *Orchestrator) active(ctx context.Context, job domain.SearchJob) bool {
	if o.opts.Active == nil || o.opts.Active(ctx, job) {
		return true
	}
	observability.LoggerFromContext(ctx).Info("search abandoned, skipping delivery",
		"user_id", job.UserID,
		"search_id", job.ID)
	return false
}

// Fail tells the user the search did not complete.
func (o *Orchestrator) Fail(ctx context.Context, job domain.SearchJob, cause error) {
	observability.LoggerFromContext(ctx).Error("search failed",
		"user_id", job.UserID,
		"search_id", job.ID,
		"error", cause)
	o.send(ctx, job.UserID, FailureMessage, "")
}

func (o *Orchestrator) flightQuery(trip domain.TripRequest) (domain.FlightQuery, error) {
	ret, _ := trip.Return()
	dep, ret, err := NormalizeTripDates(trip.Departure(), ret, o.opts.Now())
	if err != nil {
		return domain.FlightQuery{}, fmt.Errorf("normalizing dates: %w", err)
	}
	return domain.FlightQuery{
		Origin:      o.airports.Resolve(trip.Origin()),
		Destination: o.airports.Resolve(trip.Destination()),
		Departure:   dep,
		Return:      ret,
		Adults:      1,
		MaxResults:  offersPerSearch,
	}, nil
}

// deliverPhotos sends up to three city photos in order, paced by a limiter.
func (o *Orchestrator) deliverPhotos(ctx context.Context, job domain.SearchJob, city string) {
	to := job.UserID
	log := observability.LoggerFromContext(ctx).With("user_id", to)

	photos, err := o.photos.SearchCityPhotos(ctx, city, maxPhotos)
	if err != nil {
		log.Warn("photo search failed", "city", city, "error", err)
		return
	}
	if len(photos) > maxPhotos {
		photos = photos[:maxPhotos]
	}

	limiter := rate.NewLimiter(rate.Every(o.opts.PhotoDelay), 1)
	for i, p := range photos {
		if err := limiter.Wait(ctx); err != nil {
			log.Warn("photo delivery interrupted", "error", err)
			return
		}
		if !o.active(ctx, job) {
			return
		}
		o.send(ctx, to, photoCaption(i+1, len(photos), city), p.URL)
	}
}

func (o *Orchestrator) send(ctx context.Context, to domain.UserID, body, mediaURL string) {
	err := o.messenger.Send(ctx, domain.OutboundMessage{To: to, Body: body, MediaURL: mediaURL})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("message delivery failed",
			"user_id", to,
			"media", mediaURL != "",
			"error", err)
	}
}
