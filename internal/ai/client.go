// Package ai calls the external note-analysis service. It is a thin
// passthrough: the response body is returned to the caller verbatim.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// DefaultTimeout bounds one analysis call. Analysis is a slow external
// model invocation, so the allowance is generous.
const DefaultTimeout = 3 * time.Minute

// AnalyzeRequest is the payload forwarded to the analysis service.
type AnalyzeRequest struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

// AnalyzeResponse is the analysis service's verdict on a note.
type AnalyzeResponse struct {
	Summary   string           `json:"summary"`
	Tag       string           `json:"tag"`
	Sentiment models.Sentiment `json:"sentiment"`
}

// Client is an HTTP client for the analysis service.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewClient creates a client for the analysis service at url. A
// non-positive timeout falls back to DefaultTimeout.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

// Analyze forwards the note to the analysis service and returns its
// response. Failures are wrapped as ExternalServiceError; callers log
// the detail and surface only a generic message.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &apperr.ExternalServiceError{Service: "ai", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &apperr.ExternalServiceError{Service: "ai", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &apperr.ExternalServiceError{Service: "ai", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.ExternalServiceError{
			Service: "ai",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var out AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &apperr.ExternalServiceError{Service: "ai", Err: err}
	}
	return &out, nil
}
