package domain

import "context"

// Persona tells the LLM which crew member it is speaking as.
type Persona struct {
	Role      string
	Goal      string
	Backstory string
}

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	GenerateReply(ctx context.Context, prompt string, persona Persona) (string, error)
}

// AgentRole names a crew member of the itinerary composer.
type AgentRole string

const (
	RoleFlightSpecialist   AgentRole = "flight_specialist"
	RoleHotelSpecialist    AgentRole = "hotel_specialist"
	RolePackageCoordinator AgentRole = "package_coordinator"
)

// Task is one sub-task of a composition. The outputs of the tasks listed in
// Context are given to the agent as input; they must run earlier. When Tool
// is set the agent calls that tool with ToolInput before answering.
type Task struct {
	ID             string
	Description    string
	ExpectedOutput string
	Role           AgentRole
	Context        []*Task
	Tool           string
	ToolInput      map[string]any
}

// Composer runs an ordered list of tasks and returns the output of the last one.
type Composer interface {
	Compose(ctx context.Context, tasks []*Task) (string, error)
}

// FlightSearcher talks to the flight-offer provider.
type FlightSearcher interface {
	Authenticate(ctx context.Context) error
	// SearchFlights returns the offers formatted for a chat message.
	SearchFlights(ctx context.Context, q FlightQuery) (string, error)
}

// PhotoSearcher talks to the image provider.
type PhotoSearcher interface {
	SearchCityPhotos(ctx context.Context, city string, count int) ([]Photo, error)
	SearchHotelPhotos(ctx context.Context, city, hotelName string, count int) ([]Photo, error)
}

// Messenger delivers messages to a user's messaging client.
type Messenger interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// SessionStore keeps sessions keyed by user. Implementations return copies.
type SessionStore interface {
	GetSession(ctx context.Context, userID UserID) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, userID UserID) error
}

// PackageStore archives accepted packages.
type PackageStore interface {
	SavePackage(ctx context.Context, pkg *AcceptedPackage) error
	ListPackagesByUser(ctx context.Context, userID UserID, limit int) ([]*AcceptedPackage, error)
}

// SearchDispatcher runs search jobs off the request path. The returned
// channel receives exactly one outcome.
type SearchDispatcher interface {
	Submit(job SearchJob) (<-chan SearchOutcome, error)
}
