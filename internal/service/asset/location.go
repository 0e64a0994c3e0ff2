package asset

import (
	"context"
	"fmt"

	"github.com/assetbase/backend/internal/domain"
)

// Near returns all assets with a stored point strictly within the query
// radius, ordered by ascending geodesic distance.
func (s *Service) Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
	if err := query.ValidateMax(s.maxRadius); err != nil {
		return nil, err
	}
	return s.assets.Near(ctx, query)
}

// SetLocation overwrites the asset's stored point. Only the creator or the
// custodian may move an asset; everyone else gets ErrForbidden. The update
// is audited as a location_update with the old and new points.
func (s *Service) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	before, err := s.assets.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditLocation(actorID(ctx), before) {
		return nil, fmt.Errorf("asset %s location: %w", publicID, domain.ErrForbidden)
	}

	var updated *domain.Asset
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.assets.SetLocation(txCtx, publicID, point)
		if err != nil {
			return fmt.Errorf("set asset %s location: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionLocationUpdate, publicID,
			locationSnapshot(before.Location), locationSnapshot(updated.Location))
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

func locationSnapshot(p *domain.GeoPoint) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{"longitude": p.Longitude, "latitude": p.Latitude}
}
