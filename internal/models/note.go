// Package models defines the domain types for Ansuz and the note
// schema validation and normalization rules applied before persistence.
package models

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Sort orders accepted by a search request.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortTitle     = "title"
)

// Field limits for a note payload.
const (
	MaxTitleLen    = 200
	MaxContentLen  = 50000
	MaxSummaryLen  = 5000
	MaxKeyPoints   = 20
	MaxKeyPointLen = 200
	MaxTags        = 50
	MaxTagLen      = 50
)

// tagPattern restricts tags to alphanumerics, spaces, hyphens, underscores.
var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

// Sentiment is a user-asserted emotional-tone label plus a continuous
// score in [-1, 1]. Score and label are supplied independently; the
// server does not cross-check that they agree.
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// Validate checks the score bound and label enum membership.
func (s Sentiment) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Score, validation.Min(-1.0), validation.Max(1.0)),
		validation.Field(&s.Label, validation.Required,
			validation.In(SentimentPositive, SentimentNegative, SentimentNeutral)),
	)
}

// Note is the primary user-authored content entity.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"keyPoints"`
	Tags      []string  `json:"tags"`
	Sentiment Sentiment `json:"sentiment"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePayload is a candidate note as submitted by the caller: everything
// in Note except the server-assigned id, owner, and timestamps.
type NotePayload struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"keyPoints"`
	Tags      []string  `json:"tags"`
	Sentiment Sentiment `json:"sentiment"`
}

// Validate checks the raw payload against the note schema and reports
// every violated constraint, not just the first. It must run before
// Normalize: limits apply to the payload as submitted.
func (p *NotePayload) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, MaxTitleLen)),
		validation.Field(&p.Content, validation.Required, validation.RuneLength(1, MaxContentLen)),
		validation.Field(&p.Summary, validation.Required, validation.RuneLength(1, MaxSummaryLen)),
		validation.Field(&p.KeyPoints,
			validation.Length(0, MaxKeyPoints),
			validation.Each(validation.RuneLength(0, MaxKeyPointLen))),
		validation.Field(&p.Tags,
			validation.Length(0, MaxTags),
			validation.Each(
				validation.RuneLength(1, MaxTagLen),
				validation.Match(tagPattern))),
	)
	errs, _ := err.(validation.Errors)
	if errs == nil {
		errs = validation.Errors{}
	}
	if serr := p.Sentiment.Validate(); serr != nil {
		errs["sentiment"] = serr
	}
	if len(errs) == 0 {
		return nil
	}
	return &apperr.ValidationError{Fields: errs}
}

// Normalize rewrites the payload in place ahead of persistence: tags are
// trimmed, lowercased, stripped of empties, and deduplicated keeping the
// first occurrence; key points are trimmed and stripped of empties.
func (p *NotePayload) Normalize() {
	tags := make([]string, 0, len(p.Tags))
	seen := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	p.Tags = tags

	points := make([]string, 0, len(p.KeyPoints))
	for _, kp := range p.KeyPoints {
		kp = strings.TrimSpace(kp)
		if kp == "" {
			continue
		}
		points = append(points, kp)
	}
	p.KeyPoints = points
}
