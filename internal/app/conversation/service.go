package conversation

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

// Service runs the booking conversation: one session per user, advanced one
// inbound message at a time, handing complete trips to the search dispatcher.
type Service struct {
	sessions   domain.SessionStore
	packages   domain.PackageStore
	dispatcher domain.SearchDispatcher
	locks      *keyedMutex
	now        func() time.Time
	newID      func() string
}

// NewService wires the conversation. packages may be nil, in which case
// accepted packages are not archived.
func NewService(
	sessions domain.SessionStore,
	packages domain.PackageStore,
	dispatcher domain.SearchDispatcher,
) *Service {
	return &Service{
		sessions:   sessions,
		packages:   packages,
		dispatcher: dispatcher,
		locks:      newKeyedMutex(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

type HandleMessageInput struct {
	UserID domain.UserID
	Text   string
}

type HandleMessageOutput struct {
	Reply string
	// Step is where the session is after the message; StepIntro after a restart.
	Step domain.Step
}

// HandleMessage applies one inbound message and returns the synchronous reply.
func (s *Service) HandleMessage(ctx context.Context, in HandleMessageInput) (*HandleMessageOutput, error) {
	if in.UserID == "" {
		return nil, errors.New("user id is required")
	}

	unlock := s.locks.lock(in.UserID)
	defer unlock()

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)

	session, err := s.sessions.GetSession(ctx, in.UserID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		now := s.now()
		session = &domain.Session{
			UserID:    in.UserID,
			Step:      domain.StepIntro,
			CreatedAt: now,
			UpdatedAt: now,
		}
		log.Info("session created")
	} else if err != nil {
		log.Error("failed to load session", "error", err)
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	tokens := tokenize(text)

	if isRestart(session.Step, tokens) {
		if err := s.sessions.DeleteSession(ctx, in.UserID); err != nil {
			log.Error("failed to delete session", "error", err)
			return nil, err
		}
		log.Info("session restarted", "from_step", session.Step)
		return &HandleMessageOutput{Reply: restartMessage, Step: domain.StepIntro}, nil
	}

	from := session.Step
	reply := s.advance(ctx, session, text, tokens)

	session.UpdatedAt = s.now()
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, err
	}

	log.Info("message handled", "from_step", from, "step", session.Step)
	return &HandleMessageOutput{Reply: reply, Step: session.Step}, nil
}

// advance runs the step's transition on session and returns the reply.
func (s *Service) advance(ctx context.Context, session *domain.Session, text string, tokens []string) string {
	trip := &session.Trip

	switch session.Step {
	case domain.StepIntro:
		if introGrammar.match(tokens) != IntentStart {
			return welcomeMessage
		}
		session.Step = domain.StepDestination
		return askDestinationMessage

	case domain.StepDestination:
		if text == "" {
			return emptyDestinationMessage
		}
		trip.Destination = titleCase(text)
		session.Step = domain.StepOrigin
		return destinationSetMessage(trip.Destination)

	case domain.StepOrigin:
		if text == "" {
			return emptyOriginMessage
		}
		trip.Origin = titleCase(text)
		session.Step = domain.StepFlightType
		return originSetMessage(trip.Origin, trip.Destination)

	case domain.StepFlightType:
		switch flightTypeGrammar.match(tokens) {
		case IntentRoundTrip:
			trip.FlightType = domain.FlightTypeRoundTrip
			session.Step = domain.StepDatesRoundTrip
			return roundTripSelectedMessage
		case IntentOneWay:
			trip.FlightType = domain.FlightTypeOneWay
			session.Step = domain.StepDateOneWay
			return oneWaySelectedMessage
		default:
			return flightTypeErrorMessage
		}

	case domain.StepDatesRoundTrip:
		dates, err := parseRoundTrip(text)
		if err != nil {
			return datesErrorMessage
		}
		trip.Dates = dates
		session.Step = domain.StepHotelChoice
		return datesSetMessage(dates)

	case domain.StepDateOneWay:
		date, err := domain.NewOneWayDate(text)
		if err != nil {
			return dateErrorMessage
		}
		trip.Dates = date
		session.Step = domain.StepHotelChoice
		return datesSetMessage(date)

	case domain.StepHotelChoice:
		switch yesNoGrammar.match(tokens) {
		case IntentYes:
			trip.WantsHotel = true
			session.Step = domain.StepBudget
			return budgetWithHotelMessage
		case IntentNo:
			trip.WantsHotel = false
			session.Step = domain.StepBudget
			return budgetFlightOnlyMessage
		default:
			return yesNoErrorMessage
		}

	case domain.StepBudget:
		budget := cleanBudget(text)
		if budget == "" {
			return budgetErrorMessage
		}
		trip.Budget = budget
		session.Step = domain.StepConfirm
		return recapMessage(*trip)

	case domain.StepConfirm:
		if yesNoGrammar.match(tokens) != IntentYes {
			return searchCancelledMessage
		}
		if err := s.startSearch(ctx, session); err != nil {
			return busyMessage
		}
		return searchStartedMessage

	case domain.StepMenu:
		switch menuGrammar.match(tokens) {
		case IntentAccept:
			s.archive(ctx, session)
			return nextStepsMessage(trip.WantsHotel)
		case IntentAlternative:
			if err := s.startSearch(ctx, session); err != nil {
				return busyMessage
			}
			return alternativeStartedMessage
		default:
			return unknownMessage
		}

	default:
		// StepWaiting: only the search outcome moves the session
		return unknownMessage
	}
}

// startSearch snapshots the trip and submits it. On success the session waits
// for the outcome and remembers where to go back to if the search fails. On
// error the session is left untouched.
func (s *Service) startSearch(ctx context.Context, session *domain.Session) error {
	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	if session.Searching() {
		return domain.ErrSearchInFlight
	}

	req, err := session.Trip.Request()
	if err != nil {
		log.Error("cannot start search", "error", err)
		return err
	}

	job := domain.SearchJob{
		ID:     domain.SearchID(s.newID()),
		UserID: session.UserID,
		Trip:   req,
	}
	if _, err := s.dispatcher.Submit(job); err != nil {
		log.Warn("search rejected", "error", err)
		return err
	}

	session.Resume = &domain.ResumePoint{Step: session.Step, LastResult: session.LastResult}
	session.ActiveSearch = job.ID
	session.LastResult = ""
	session.Step = domain.StepWaiting

	log.Info("search submitted", "search_id", job.ID)
	return nil
}

// ApplySearchOutcome moves a waiting session to the menu, or back to where it
// was if the search failed. Outcomes for another search are dropped.
func (s *Service) ApplySearchOutcome(ctx context.Context, outcome domain.SearchOutcome) {
	unlock := s.locks.lock(outcome.UserID)
	defer unlock()

	log := observability.LoggerFromContext(ctx).With("user_id", outcome.UserID, "search_id", outcome.SearchID)

	session, err := s.sessions.GetSession(ctx, outcome.UserID)
	if err != nil {
		log.Info("outcome dropped", "reason", err.Error())
		return
	}
	if session.ActiveSearch != outcome.SearchID {
		log.Info("outcome dropped", "reason", "stale search", "active_search", session.ActiveSearch)
		return
	}

	if outcome.Err == nil {
		session.Step = domain.StepMenu
		session.LastResult = outcome.Result
	} else if session.Resume != nil {
		session.Step = session.Resume.Step
		session.LastResult = session.Resume.LastResult
	} else {
		session.Step = domain.StepConfirm
	}
	session.ActiveSearch = ""
	session.Resume = nil
	session.UpdatedAt = s.now()

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return
	}
	log.Info("outcome applied", "step", session.Step, "failed", outcome.Err != nil)
}

// SearchActive reports whether the user's session still waits for searchID.
func (s *Service) SearchActive(ctx context.Context, userID domain.UserID, searchID domain.SearchID) bool {
	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return false
	}
	return session.ActiveSearch == searchID
}

// GetSession returns a snapshot of the user's session.
func (s *Service) GetSession(ctx context.Context, userID domain.UserID) (*domain.Session, error) {
	return s.sessions.GetSession(ctx, userID)
}

func (s *Service) archive(ctx context.Context, session *domain.Session) {
	if s.packages == nil {
		return
	}
	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	trip := session.Trip
	pkg := &domain.AcceptedPackage{
		ID:          domain.PackageID(s.newID()),
		UserID:      session.UserID,
		Destination: trip.Destination,
		Origin:      trip.Origin,
		FlightType:  trip.FlightType,
		WantsHotel:  trip.WantsHotel,
		Budget:      trip.Budget,
		Itinerary:   session.LastResult,
		AcceptedAt:  s.now(),
	}
	if trip.Dates != nil {
		pkg.Departure = trip.Dates.Departure()
		pkg.Return, _ = trip.Dates.Return()
	}

	if err := s.packages.SavePackage(ctx, pkg); err != nil {
		log.Error("failed to archive package", "error", err)
		return
	}
	log.Info("package archived", "package_id", pkg.ID)
}

// isRestart reads a restart request. Steps taking a city name need the word
// alone so names like "Nouveau-Mexique" go through.
func isRestart(step domain.Step, tokens []string) bool {
	if restartGrammar.match(tokens) != IntentRestart {
		return false
	}
	switch step {
	case domain.StepDestination, domain.StepOrigin:
		return len(tokens) == 1
	default:
		return true
	}
}

// titleCase builds a caser per call; casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.French).String(strings.Join(strings.Fields(s), " "))
}

// cleanBudget drops currency symbols.
func cleanBudget(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s))
}

var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// parseRoundTrip reads "JJ/MM - JJ/MM". A spaced dash is tried first so ISO
// dates survive.
func parseRoundTrip(text string) (domain.RoundTripDates, error) {
	text = dashReplacer.Replace(text)

	if dep, ret, ok := strings.Cut(text, " - "); ok {
		if strings.Contains(ret, " - ") {
			return domain.RoundTripDates{}, domain.ErrInvalidDates
		}
		return domain.NewRoundTripDates(dep, ret)
	}

	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return domain.RoundTripDates{}, domain.ErrInvalidDates
	}
	return domain.NewRoundTripDates(parts[0], parts[1])
}
