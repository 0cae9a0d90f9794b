package api

import (
	"github.com/starford/ansuz/internal/ai"
	"github.com/starford/ansuz/internal/models"
)

// CreateNoteRequest is the request body for creating or updating a note
// (aliased from the domain layer).
type CreateNoteRequest = models.NotePayload

// SearchRequest is the request body for the faceted search endpoint.
type SearchRequest = models.SearchRequest

// SearchResponse is the paginated search result envelope.
type SearchResponse = models.SearchResponse

// NoteResponse is the public note representation.
type NoteResponse = models.Note

// AnalyzeRequest is the request body for the AI analysis passthrough.
type AnalyzeRequest = ai.AnalyzeRequest

// AnalyzeResponse is the AI analysis result returned verbatim.
type AnalyzeResponse = ai.AnalyzeResponse
