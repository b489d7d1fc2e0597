package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twilio/twilio-go/twiml"

	"github.com/PabloGalante/travelbot/internal/app/conversation"
	"github.com/PabloGalante/travelbot/internal/app/packages"
	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

const (
	statusText        = "✅ Travel Bot actif !"
	internalErrorText = "❌ Oups, un problème est survenu.\n\nRéessaie dans un instant."
	rateLimitedText   = "⏳ Trop de messages d'un coup.\n\nPatiente une minute puis réessaie."
)

type Config struct {
	Conversation *conversation.Service
	Packages     *packages.Service

	// Signature checking on the webhook is enabled when both are set.
	TwilioAuthToken  string
	PublicWebhookURL string

	// InboundPerMinute caps messages per sender; zero disables the limit.
	InboundPerMinute int
}

type Server struct {
	conv     *conversation.Service
	packages *packages.Service
}

func NewServer(cfg Config) http.Handler {
	s := &Server{conv: cfg.Conversation, packages: cfg.Packages}
	mux := http.NewServeMux()

	var webhook http.Handler = http.HandlerFunc(s.handleWhatsApp)
	if cfg.InboundPerMinute > 0 {
		webhook = withSenderRateLimit(newSenderLimiter(cfg.InboundPerMinute))(webhook)
	}
	if cfg.TwilioAuthToken != "" && cfg.PublicWebhookURL != "" {
		webhook = withTwilioSignature(cfg.TwilioAuthToken, cfg.PublicWebhookURL)(webhook)
	}

	// /whatsapp → Twilio inbound webhook (POST, form encoded)
	mux.Handle("/whatsapp", webhook)

	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions/{user_id} → GET: session snapshot
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// /packages?user_id=...&limit=... → GET: accepted packages
	mux.HandleFunc("/packages", s.handlePackages)

	return chainMiddlewares(mux, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────

type sessionResponse struct {
	UserID      string    `json:"user_id"`
	Step        string    `json:"step"`
	Destination string    `json:"destination,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	FlightType  string    `json:"flight_type,omitempty"`
	Departure   string    `json:"departure,omitempty"`
	Return      string    `json:"return,omitempty"`
	WantsHotel  bool      `json:"wants_hotel"`
	Budget      string    `json:"budget,omitempty"`
	Searching   bool      `json:"searching"`
	LastResult  string    `json:"last_result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type packagesResponse struct {
	UserID   string                    `json:"user_id"`
	Packages []*domain.AcceptedPackage `json:"packages"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form body")
		return
	}

	from := strings.TrimSpace(r.PostForm.Get("From"))
	body := r.PostForm.Get("Body")
	if from == "" {
		badRequest(w, "From is required")
		return
	}

	log := observability.LoggerFromContext(r.Context())
	log.Info("inbound message", "user_id", from, "length", len(body))

	out, err := s.conv.HandleMessage(r.Context(), conversation.HandleMessageInput{
		UserID: domain.UserID(from),
		Text:   body,
	})
	if err != nil {
		log.Error("handle message failed", "user_id", from, "error", err)
		writeTwiML(w, internalErrorText)
		return
	}

	writeTwiML(w, out.Reply)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(statusText))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions/{user_id}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	session, err := s.conv.GetSession(r.Context(), domain.UserID(id))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			notFound(w, "session not found")
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	pkgs, err := s.packages.ListUserPackages(r.Context(), domain.UserID(userID), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, packagesResponse{UserID: userID, Packages: pkgs})
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		UserID:      string(s.UserID),
		Step:        string(s.Step),
		Destination: s.Trip.Destination,
		Origin:      s.Trip.Origin,
		FlightType:  string(s.Trip.FlightType),
		WantsHotel:  s.Trip.WantsHotel,
		Budget:      s.Trip.Budget,
		Searching:   s.Searching(),
		LastResult:  s.LastResult,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Trip.Dates != nil {
		resp.Departure = s.Trip.Dates.Departure()
		resp.Return, _ = s.Trip.Dates.Return()
	}
	return resp
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

// writeTwiML answers Twilio with a single message.
func writeTwiML(w http.ResponseWriter, body string) {
	doc, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: body}})
	if err != nil {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
