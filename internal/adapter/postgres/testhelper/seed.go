package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetbase/backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting
// test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NextPublicID allocates a sequenced public identifier directly against the
// counter table, bypassing the repository layer.
func NextPublicID(t *testing.T, pool *pgxpool.Pool, entityType domain.EntityType) string {
	t.Helper()

	var seq int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO id_counters (entity_type, last_value) VALUES ($1, $2)
		 ON CONFLICT (entity_type) DO UPDATE SET last_value = id_counters.last_value + 1
		 RETURNING last_value`,
		entityType, domain.IdentifierSeed,
	).Scan(&seq)
	if err != nil {
		t.Fatalf("testhelper: NextPublicID: %v", err)
	}

	id, err := domain.FormatIdentifier(entityType, seq)
	if err != nil {
		t.Fatalf("testhelper: NextPublicID format: %v", err)
	}
	return id
}

// SeedStaff creates an active staff member with a unique email.
func SeedStaff(t *testing.T, pool *pgxpool.Pool) domain.Staff {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	member := domain.Staff{
		ID:        uuid.New(),
		FullName:  "Test Staff " + suffix,
		Email:     "staff-" + suffix + "@example.com",
		Position:  "technician",
		Status:    domain.StaffStatusActive,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO staff (id, full_name, email, position, status, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		member.ID, member.FullName, member.Email, member.Position,
		member.Status, member.Tags, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStaff: %v", err)
	}

	return member
}

// SeedAsset creates an active asset owned by createdBy. Location stays unset;
// use SeedAssetAt for geo tests.
func SeedAsset(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID) domain.Asset {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	asset := domain.Asset{
		PublicID:  NextPublicID(t, pool, domain.EntityTypeAsset),
		Name:      "Test Asset " + suffix,
		Category:  "equipment",
		Status:    domain.AssetStatusActive,
		Tags:      []string{},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO assets (public_id, name, category, status, tags, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		asset.PublicID, asset.Name, asset.Category, asset.Status,
		asset.Tags, asset.CreatedBy, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAsset: %v", err)
	}

	return asset
}

// SeedAssetAt creates an asset with a stored coordinate pair.
func SeedAssetAt(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID, lng, lat float64) domain.Asset {
	t.Helper()

	asset := SeedAsset(t, pool, createdBy)

	_, err := pool.Exec(context.Background(),
		`UPDATE assets SET longitude = $2, latitude = $3 WHERE public_id = $1`,
		asset.PublicID, lng, lat,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAssetAt: %v", err)
	}

	asset.Location = &domain.GeoPoint{Longitude: lng, Latitude: lat}
	return asset
}

// SeedWorkflow creates a pending workflow requested by the given actor.
func SeedWorkflow(t *testing.T, pool *pgxpool.Pool, requestedBy uuid.UUID) domain.Workflow {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	wf := domain.Workflow{
		PublicID:    NextPublicID(t, pool, domain.EntityTypeWorkflow),
		Type:        domain.WorkflowTypePurchase,
		Status:      domain.WorkflowStatusPending,
		Title:       "Test Workflow " + suffix,
		RequestedBy: requestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO workflows (public_id, type, status, title, requested_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wf.PublicID, wf.Type, wf.Status, wf.Title, wf.RequestedBy, wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkflow: %v", err)
	}

	return wf
}

// SeedWorkOrder creates an open work order, optionally attached to an asset.
func SeedWorkOrder(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID, assetID *string) domain.WorkOrder {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.WorkOrder{
		PublicID:  NextPublicID(t, pool, domain.EntityTypeWorkOrder),
		Title:     "Test Work Order " + suffix,
		Priority:  domain.WorkOrderPriorityMedium,
		Status:    domain.WorkOrderStatusOpen,
		AssetID:   assetID,
		Tags:      []string{},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO work_orders (public_id, title, priority, status, asset_id, tags, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.PublicID, order.Title, order.Priority, order.Status,
		order.AssetID, order.Tags, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWorkOrder: %v", err)
	}

	return order
}

// SeedDocument creates a draft document owned by the given actor.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.Document {
	t.Helper()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := domain.Document{
		PublicID:  NextPublicID(t, pool, domain.EntityTypeDocument),
		Title:     fmt.Sprintf("Test Document %s", suffix),
		Category:  "manual",
		Status:    domain.DocumentStatusDraft,
		OwnerID:   ownerID,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO documents (public_id, title, category, status, owner_id, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.PublicID, doc.Title, doc.Category, doc.Status,
		doc.OwnerID, doc.Tags, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument: %v", err)
	}

	return doc
}
