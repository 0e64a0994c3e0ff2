package asset

import (
	"context"
	"fmt"

	"github.com/assetbase/backend/internal/domain"
)

// Update applies a partial update and returns the post-mutation asset.
func (s *Service) Update(ctx context.Context, publicID string, input UpdateInput) (*domain.Asset, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, domain.NewValidationError("update", "at least one field required")
	}

	before, err := s.assets.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Asset
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.assets.Update(txCtx, publicID, domain.AssetUpdateParams{
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
			Status:      input.Status,
			Tags:        input.Tags,
			CustodianID: input.CustodianID,
		})
		if err != nil {
			return fmt.Errorf("update asset %s: %w", publicID, err)
		}

		oldValue, newValue := domain.DiffSnapshots(snapshot(before), snapshot(updated))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, publicID, oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}
