package asset

import (
	"context"

	pgasset "github.com/assetbase/backend/internal/adapter/postgres/asset"
	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Get returns an asset by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, publicID)
}

// List returns one page of assets and the total count under the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Asset, int, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return s.assets.List(ctx, pgasset.Filter{
		Search:   input.Search,
		Status:   input.Status,
		Category: input.Category,
		Limit:    limit,
		Offset:   offset,
	})
}
