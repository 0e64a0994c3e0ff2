package asset

import (
	"context"
	"fmt"

	"github.com/assetbase/backend/internal/domain"
)

// Create validates the input, allocates the next sequenced identifier,
// persists the asset and writes its audit record, all in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Asset, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := domain.AssetStatusActive
	if input.Status != nil {
		status = *input.Status
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var created *domain.Asset
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		publicID, err := s.ids.Next(txCtx, domain.EntityTypeAsset)
		if err != nil {
			return fmt.Errorf("allocate asset id: %w", err)
		}

		created, err = s.assets.Create(txCtx, &domain.Asset{
			PublicID:    publicID,
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
			Status:      status,
			Tags:        tags,
			CustodianID: input.CustodianID,
			CreatedBy:   actorID(txCtx),
		})
		if err != nil {
			return fmt.Errorf("create asset: %w", err)
		}

		return s.recordAudit(txCtx, domain.AuditActionCreate, created.PublicID, nil, snapshot(created))
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "asset created", "public_id", created.PublicID)
	return created, nil
}
