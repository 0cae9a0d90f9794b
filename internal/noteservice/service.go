// Package noteservice orchestrates note operations: it owns request
// defaults, pagination bounds, and the response envelope, delegating
// persistence and query building to the store.
package noteservice

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/store"
)

// placeholderOwnerID stands in for an authenticated user id until auth
// lands. Searches stay unscoped; the query builder already carries the
// owner predicate for when enforcement is switched on.
var placeholderOwnerID = uuid.Nil.String()

// Service coordinates validation, persistence, and search assembly.
type Service struct {
	store store.NoteStore
}

// NewService creates a new note service backed by the given store.
func NewService(st store.NoteStore) *Service {
	return &Service{store: st}
}

// Create validates and normalizes a payload, then persists it. On
// validation failure nothing is written and the error enumerates every
// violated constraint.
func (s *Service) Create(ctx context.Context, p *models.NotePayload) (*models.Note, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Normalize()
	return s.store.Create(ctx, placeholderOwnerID, p)
}

// Get returns a single note by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Note, error) {
	return s.store.Get(ctx, id)
}

// Update replaces a note's payload through the same validator as Create.
func (s *Service) Update(ctx context.Context, id string, p *models.NotePayload) (*models.Note, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Normalize()
	return s.store.Update(ctx, id, p)
}

// Delete removes a note by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Search applies defaults and pagination bounds to the request, runs the
// count and the fetch concurrently against the same filter, and shapes
// the result envelope. The count is not snapshot-consistent with the
// fetch under concurrent writes; totalCount may be momentarily stale.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = models.DefaultPageLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}
	skip := (page - 1) * limit

	f := store.FilterFromRequest(req, "")

	var (
		total int
		notes []models.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.store.Find(gctx, f, req.SortBy, limit, skip)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &models.SearchResponse{
		Notes:      notes,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}
