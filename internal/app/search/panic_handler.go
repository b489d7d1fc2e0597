package search

import (
	"runtime/debug"

	"github.com/PabloGalante/travelbot/internal/observability"
)

// PanicHandler decides what happens when a search panics. The search itself
// is always turned into a failed outcome.
type PanicHandler interface {
	HandlePanic(workerID int, panicValue any, stackTrace []byte)
}

// LogPanicHandler logs panics with their stack trace.
type LogPanicHandler struct{}

func (LogPanicHandler) HandlePanic(workerID int, panicValue any, stackTrace []byte) {
	observability.Logger().Error("PANIC in search worker",
		"worker_id", workerID,
		"panic", panicValue,
		"stack_trace", string(stackTrace))
}

// MetricsPanicHandler counts panics and delegates to the wrapped handler.
type MetricsPanicHandler struct {
	wrapped PanicHandler
	onPanic func(workerID int, panicValue any)
}

func NewMetricsPanicHandler(wrapped PanicHandler, onPanic func(int, any)) *MetricsPanicHandler {
	return &MetricsPanicHandler{wrapped: wrapped, onPanic: onPanic}
}

func (h *MetricsPanicHandler) HandlePanic(workerID int, panicValue any, stackTrace []byte) {
	if h.onPanic != nil {
		h.onPanic(workerID, panicValue)
	}
	if h.wrapped != nil {
		h.wrapped.HandlePanic(workerID, panicValue, stackTrace)
	}
}

// handleRecoveredPanic processes a recovered panic value.
func handleRecoveredPanic(workerID int, panicValue any, handler PanicHandler) {
	if handler == nil {
		handler = LogPanicHandler{}
	}
	handler.HandlePanic(workerID, panicValue, debug.Stack())
}
