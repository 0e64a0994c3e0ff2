// Package search implements cross-entity free-text search. Each entity
// store is queried concurrently and the partial result sets are returned
// together.
package search

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultPerTypeLimit = 20
	maxPerTypeLimit     = 100
	maxQueryLen         = 200
)

type assetSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]*domain.Asset, error)
}

type staffSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]*domain.Staff, error)
}

type documentSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]*domain.Document, error)
}

type workOrderSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]*domain.WorkOrder, error)
}

type workflowSearcher interface {
	Search(ctx context.Context, term string, limit int) ([]*domain.Workflow, error)
}

// Service fans a free-text query out across every entity store.
type Service struct {
	log        *slog.Logger
	assets     assetSearcher
	staff      staffSearcher
	documents  documentSearcher
	workOrders workOrderSearcher
	workflows  workflowSearcher
}

// NewService creates a new cross-entity search service.
func NewService(
	logger *slog.Logger,
	assets assetSearcher,
	staff staffSearcher,
	documents documentSearcher,
	workOrders workOrderSearcher,
	workflows workflowSearcher,
) *Service {
	return &Service{
		log:        logger.With("service", "search"),
		assets:     assets,
		staff:      staff,
		documents:  documents,
		workOrders: workOrders,
		workflows:  workflows,
	}
}

// Result groups the per-entity matches for one query.
type Result struct {
	Assets     []*domain.Asset
	Staff      []*domain.Staff
	Documents  []*domain.Document
	WorkOrders []*domain.WorkOrder
	Workflows  []*domain.Workflow
}

// Search queries all entity stores concurrently. Limit caps the matches per
// entity type, not the overall count.
func (s *Service) Search(ctx context.Context, query string, limit int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "required")
	}
	if len(query) > maxQueryLen {
		return nil, domain.NewValidationError("q", "too long (max 200)")
	}
	if limit <= 0 {
		limit = defaultPerTypeLimit
	} else if limit > maxPerTypeLimit {
		limit = maxPerTypeLimit
	}

	var result Result
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.assets.Search(gCtx, query, limit)
		result.Assets = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.staff.Search(gCtx, query, limit)
		result.Staff = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.documents.Search(gCtx, query, limit)
		result.Documents = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.workOrders.Search(gCtx, query, limit)
		result.WorkOrders = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.workflows.Search(gCtx, query, limit)
		result.Workflows = matches
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &result, nil
}
