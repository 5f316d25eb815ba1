package www

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ashleyolson477/fischertechnik-lambda/handler"
)

const maxEventBytes = 1 << 20

// EventHandler handles one message body; *handler.Handler satisfies it.
type EventHandler interface {
	HandleRaw(ctx context.Context, topic string, data []byte) handler.Ack
}

// Connectivity reports whether the message bus is up. May be nil.
type Connectivity interface {
	IsConnected() bool
}

type Handlers struct {
	events EventHandler
	bus    Connectivity
}

// NewRouter exposes the event handler over HTTP. POST /events/<topic>
// delivers the body as if it arrived on that bus topic.
func NewRouter(events EventHandler, bus Connectivity) http.Handler {
	h := &Handlers{events: events, bus: bus}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", h.apiHealthCheck)
	r.Post("/events", h.apiPostEvent)
	r.Post("/events/*", h.apiPostEvent)

	return r
}

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if h.bus != nil {
		status["messaging"] = h.bus.IsConnected()
	}
	h.jsonOK(w, status)
}

func (h *Handlers) apiPostEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		h.jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	ack := h.events.HandleRaw(r.Context(), chi.URLParam(r, "*"), body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ack.StatusCode)
	json.NewEncoder(w).Encode(ack)
}
