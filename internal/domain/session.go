package domain

// Session is the conversation state of one user. It lives in process memory
// until the user restarts.
type Session struct {
	UserID    UserID
	Step      Step
	Trip      Trip
	CreatedAt Timestamp
	UpdatedAt Timestamp

	// LastResult is the last composed itinerary, kept while Step is StepMenu.
	LastResult string

	// ActiveSearch is set while a search runs for this session.
	ActiveSearch SearchID
	// Resume is where the session goes back to if the active search fails.
	Resume *ResumePoint
}

type ResumePoint struct {
	Step       Step
	LastResult string
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	if s.Resume != nil {
		r := *s.Resume
		c.Resume = &r
	}
	return &c
}

// Searching reports whether a search is in flight.
func (s *Session) Searching() bool {
	return s.ActiveSearch != ""
}

// SearchJob is the unit of work handed to the background orchestrator.
type SearchJob struct {
	ID     SearchID
	UserID UserID
	Trip   TripRequest
}

// SearchOutcome is published once per SearchJob when the orchestrator is done.
type SearchOutcome struct {
	SearchID SearchID
	UserID   UserID
	Result   string
	Err      error
}

// AcceptedPackage archives a package the user said yes to.
type AcceptedPackage struct {
	ID          PackageID  `json:"id"`
	UserID      UserID     `json:"user_id"`
	Destination string     `json:"destination"`
	Origin      string     `json:"origin"`
	FlightType  FlightType `json:"flight_type"`
	Departure   string     `json:"departure"`
	Return      string     `json:"return,omitempty"`
	WantsHotel  bool       `json:"wants_hotel"`
	Budget      string     `json:"budget"`
	Itinerary   string     `json:"itinerary"`
	AcceptedAt  Timestamp  `json:"accepted_at"`
}

// Photo is one image returned by the photo provider.
type Photo struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
	Attribution  string `json:"attribution"`
}

// OutboundMessage is a text (and optional media) sent to a user out of band.
type OutboundMessage struct {
	To       UserID
	Body     string
	MediaURL string
}

// FlightQuery uses IATA codes and ISO dates. Return is empty for one-way.
type FlightQuery struct {
	Origin      string
	Destination string
	Departure   string
	Return      string
	Adults      int
	MaxResults  int
}
