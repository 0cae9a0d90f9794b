// Package api implements the Ansuz REST API using chi.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/ai"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *noteservice.Service
	ai     *ai.Client
	broker *sse.Broker
}

// NewHandler creates a new Handler. ai and broker may be nil; the
// corresponding routes then degrade gracefully.
func NewHandler(svc *noteservice.Service, aiClient *ai.Client, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, ai: aiClient, broker: broker}
}

func (h *Handler) publish(kind, noteID string) {
	if h.broker != nil {
		h.broker.PublishNoteEvent(kind, noteID)
	}
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note payload"
//	@Success		201		{object}	NoteResponse
//	@Failure		400		{object}	validationErrResponse
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		if ve := apperr.AsValidation(err); ve != nil {
			writeJSON(w, http.StatusBadRequest, validationErrResponse{
				Error:   "validation failed",
				Details: ve.Fields,
			})
			return
		}
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.publish(sse.NoteCreated, note.ID)
	writeJSON(w, http.StatusCreated, note)
}

// SearchNotes handles POST /api/notes/search.
//
//	@Summary		Faceted search over notes
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SearchRequest	true	"Search request"
//	@Success		200		{object}	SearchResponse
//	@Failure		500		{object}	searchErrResponse
//	@Router			/notes/search [post]
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	resp, err := h.svc.Search(r.Context(), &req)
	if err != nil {
		slog.Error("search notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, searchErrResponse{
			Success: false,
			Error:   "Search failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteResponse
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Replace a note's payload
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		CreateNoteRequest	true	"Updated payload"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	validationErrResponse
//	@Failure		404		{object}	errResponse
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	note, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case apperr.AsValidation(err) != nil:
			writeJSON(w, http.StatusBadRequest, validationErrResponse{
				Error:   "validation failed",
				Details: apperr.AsValidation(err).Fields,
			})
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("update note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publish(sse.NoteUpdated, note.ID)
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.publish(sse.NoteDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Analyze handles POST /api/ai/analyze.
//
//	@Summary		Run AI analysis on a note draft
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeRequest	true	"Draft title and body"
//	@Success		200		{object}	AnalyzeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Router			/ai/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" || req.Note == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title and note are required"))
		return
	}
	if h.ai == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("analysis service not configured"))
		return
	}

	resp, err := h.ai.Analyze(r.Context(), req)
	if err != nil {
		slog.Error("ai analyze failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
