package asset

import (
	"context"
	"fmt"

	"github.com/assetbase/backend/internal/domain"
)

// Delete removes the asset and records the deletion with a snapshot of the
// removed row.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	before, err := s.assets.GetByID(ctx, publicID)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.Delete(txCtx, publicID); err != nil {
			return fmt.Errorf("delete asset %s: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionDelete, publicID, snapshot(before), nil)
	})
}
