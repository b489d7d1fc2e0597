package httpadapter

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go/client"
	"golang.org/x/time/rate"

	"github.com/PabloGalante/travelbot/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder keeps the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging wraps a handler and logs every request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		observability.LoggerFromContext(r.Context()).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed_ms", time.Since(start).Milliseconds())
	})
}

// withRequestID reuses the caller's X-Request-ID or generates one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
	})
}

// withTwilioSignature rejects webhook calls not signed by Twilio. publicURL is
// the URL Twilio was configured with, since proxies rewrite the request URL.
func withTwilioSignature(authToken, publicURL string) func(http.Handler) http.Handler {
	validator := client.NewRequestValidator(authToken)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				badRequest(w, "invalid form body")
				return
			}

			params := make(map[string]string, len(r.PostForm))
			for k, v := range r.PostForm {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}

			if !validator.Validate(publicURL, params, r.Header.Get("X-Twilio-Signature")) {
				observability.LoggerFromContext(r.Context()).Warn("rejected unsigned webhook call", "remote_addr", r.RemoteAddr)
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid signature"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withSenderRateLimit answers over-eager senders without touching their session.
func withSenderRateLimit(limiter *senderLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if err := r.ParseForm(); err == nil {
					from := r.PostForm.Get("From")
					if from != "" && !limiter.Allow(from) {
						observability.LoggerFromContext(r.Context()).Warn("sender rate limited", "user_id", from)
						writeTwiML(w, rateLimitedText)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	maxTrackedSenders = 10000
	senderIdleTTL     = 10 * time.Minute
)

// senderLimiter holds one token bucket per sender.
type senderLimiter struct {
	perMinute int
	now       func() time.Time

	mu       sync.Mutex
	limiters map[string]*trackedLimiter
}

type trackedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newSenderLimiter(perMinute int) *senderLimiter {
	return &senderLimiter{
		perMinute: perMinute,
		now:       time.Now,
		limiters:  make(map[string]*trackedLimiter),
	}
}

func (l *senderLimiter) Allow(sender string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	t, ok := l.limiters[sender]
	if !ok {
		if len(l.limiters) >= maxTrackedSenders {
			l.evict(now)
		}
		t = &trackedLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.limiters[sender] = t
	}
	t.lastSeen = now
	return t.limiter.AllowN(now, 1)
}

// evict drops idle senders, or the oldest half when none is idle.
func (l *senderLimiter) evict(now time.Time) {
	for k, t := range l.limiters {
		if now.Sub(t.lastSeen) > senderIdleTTL {
			delete(l.limiters, k)
		}
	}
	if len(l.limiters) < maxTrackedSenders {
		return
	}

	keys := make([]string, 0, len(l.limiters))
	for k := range l.limiters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return l.limiters[keys[i]].lastSeen.Before(l.limiters[keys[j]].lastSeen)
	})
	for _, k := range keys[:len(keys)/2] {
		delete(l.limiters, k)
	}
}

// chainMiddlewares applies multiple middlewares in order.
func chainMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
