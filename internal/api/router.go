package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/ai"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// aiClient may be nil when no analysis service is configured.
// eventsHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *noteservice.Service, aiClient *ai.Client, broker *sse.Broker, eventsHandler http.Handler) chi.Router {
	h := NewHandler(svc, aiClient, broker)

	r := chi.NewRouter()

	// Notes.
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/search", h.SearchNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// AI analysis passthrough.
	r.Post("/ai/analyze", h.Analyze)

	// SSE note events.
	if eventsHandler != nil {
		r.Get("/events", eventsHandler.ServeHTTP)
	}

	return r
}
