package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// validationErrResponse carries per-field violation messages; the details
// map is safe to return verbatim.
type validationErrResponse struct {
	Error   string            `json:"error" validate:"required"`
	Details validation.Errors `json:"details" validate:"required"`
}

// searchErrResponse is the fixed body for any search failure; the actual
// error is logged server-side only.
type searchErrResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error" validate:"required"`
}
