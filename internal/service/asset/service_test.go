package asset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"

	pgasset "github.com/assetbase/backend/internal/adapter/postgres/asset"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type assetRepoMock struct {
	CreateFunc      func(ctx context.Context, asset *domain.Asset) (*domain.Asset, error)
	UpdateFunc      func(ctx context.Context, publicID string, params domain.AssetUpdateParams) (*domain.Asset, error)
	SetLocationFunc func(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error)
	DeleteFunc      func(ctx context.Context, publicID string) error
	GetByIDFunc     func(ctx context.Context, publicID string) (*domain.Asset, error)
	ListFunc        func(ctx context.Context, filter pgasset.Filter) ([]*domain.Asset, int, error)
	NearFunc        func(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error)
}

func (m *assetRepoMock) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	return m.CreateFunc(ctx, asset)
}
func (m *assetRepoMock) Update(ctx context.Context, publicID string, params domain.AssetUpdateParams) (*domain.Asset, error) {
	return m.UpdateFunc(ctx, publicID, params)
}
func (m *assetRepoMock) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
	return m.SetLocationFunc(ctx, publicID, point)
}
func (m *assetRepoMock) Delete(ctx context.Context, publicID string) error {
	return m.DeleteFunc(ctx, publicID)
}
func (m *assetRepoMock) GetByID(ctx context.Context, publicID string) (*domain.Asset, error) {
	return m.GetByIDFunc(ctx, publicID)
}
func (m *assetRepoMock) List(ctx context.Context, filter pgasset.Filter) ([]*domain.Asset, int, error) {
	return m.ListFunc(ctx, filter)
}
func (m *assetRepoMock) Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
	return m.NearFunc(ctx, query)
}

type idAllocatorMock struct {
	NextFunc func(ctx context.Context, entityType domain.EntityType) (string, error)
}

func (m *idAllocatorMock) Next(ctx context.Context, entityType domain.EntityType) (string, error) {
	return m.NextFunc(ctx, entityType)
}

type auditLoggerMock struct {
	records []domain.AuditRecord
	err     error
}

func (m *auditLoggerMock) Log(_ context.Context, record domain.AuditRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func actorCtx(actor ctxutil.Actor) context.Context {
	return ctxutil.WithActor(context.Background(), actor)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_AllocatesIDAndAuditsOnce(t *testing.T) {
	t.Parallel()

	actor := ctxutil.Actor{ID: uuid.New(), DisplayName: "Dana Ops"}
	audit := &auditLoggerMock{}
	repo := &assetRepoMock{
		CreateFunc: func(_ context.Context, asset *domain.Asset) (*domain.Asset, error) {
			copied := *asset
			return &copied, nil
		},
	}
	ids := &idAllocatorMock{
		NextFunc: func(_ context.Context, entityType domain.EntityType) (string, error) {
			if entityType != domain.EntityTypeAsset {
				t.Errorf("allocated for %s, want asset", entityType)
			}
			return "AST-1000", nil
		},
	}
	svc := NewService(testLogger(), repo, ids, audit, txManagerMock{}, 0)

	created, err := svc.Create(actorCtx(actor), CreateInput{Name: "Generator", Category: "equipment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PublicID != "AST-1000" {
		t.Errorf("public id = %q, want AST-1000", created.PublicID)
	}
	if created.CreatedBy != actor.ID {
		t.Errorf("created by = %s, want actor", created.CreatedBy)
	}

	if len(audit.records) != 1 {
		t.Fatalf("got %d audit records, want exactly 1", len(audit.records))
	}
	rec := audit.records[0]
	if rec.Action != domain.AuditActionCreate || rec.EntityID != "AST-1000" {
		t.Errorf("audit = %s %s, want create AST-1000", rec.Action, rec.EntityID)
	}
	if rec.OldValue != nil {
		t.Error("create audit must have no old value")
	}
	if rec.ActorName == nil || *rec.ActorName != "Dana Ops" {
		t.Errorf("actor name = %v, want Dana Ops", rec.ActorName)
	}
}

func TestCreate_AnonymousMutationSkipsAudit(t *testing.T) {
	t.Parallel()

	audit := &auditLoggerMock{}
	repo := &assetRepoMock{
		CreateFunc: func(_ context.Context, asset *domain.Asset) (*domain.Asset, error) {
			return asset, nil
		},
	}
	ids := &idAllocatorMock{
		NextFunc: func(context.Context, domain.EntityType) (string, error) { return "AST-1001", nil },
	}
	svc := NewService(testLogger(), repo, ids, audit, txManagerMock{}, 0)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Pump", Category: "equipment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PublicID != "AST-1001" {
		t.Errorf("public id = %q, want AST-1001", created.PublicID)
	}
	if len(audit.records) != 0 {
		t.Errorf("got %d audit records, want none for anonymous mutation", len(audit.records))
	}
}

func TestCreate_CollectsAllValidationErrors(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &assetRepoMock{}, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.Create(context.Background(), CreateInput{Tags: make([]string, 21)})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := map[string]bool{}
	for _, fe := range vErr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"name", "category", "tags"} {
		if !fields[want] {
			t.Errorf("missing violation for field %q, got %v", want, vErr.Errors)
		}
	}
}

func TestCreate_AuditFailureRollsBackMutation(t *testing.T) {
	t.Parallel()

	repo := &assetRepoMock{
		CreateFunc: func(_ context.Context, asset *domain.Asset) (*domain.Asset, error) {
			return asset, nil
		},
	}
	ids := &idAllocatorMock{
		NextFunc: func(context.Context, domain.EntityType) (string, error) { return "AST-1002", nil },
	}
	audit := &auditLoggerMock{err: domain.ErrUnavailable}
	svc := NewService(testLogger(), repo, ids, audit, txManagerMock{}, 0)

	_, err := svc.Create(actorCtx(ctxutil.Actor{ID: uuid.New()}), CreateInput{Name: "Crane", Category: "equipment"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable bubbled from audit write", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestUpdate_EmptyInputIsRejected(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &assetRepoMock{}, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.Update(context.Background(), "AST-1000", UpdateInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdate_UnknownAssetIsNotFound(t *testing.T) {
	t.Parallel()

	name := "Renamed"
	repo := &assetRepoMock{
		GetByIDFunc: func(context.Context, string) (*domain.Asset, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.Update(context.Background(), "AST-9999", UpdateInput{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete_AuditsWithOldSnapshot(t *testing.T) {
	t.Parallel()

	actor := ctxutil.Actor{ID: uuid.New()}
	audit := &auditLoggerMock{}
	repo := &assetRepoMock{
		GetByIDFunc: func(context.Context, string) (*domain.Asset, error) {
			return &domain.Asset{PublicID: "AST-1000", Name: "Generator", Category: "equipment", Status: domain.AssetStatusActive}, nil
		},
		DeleteFunc: func(context.Context, string) error { return nil },
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, audit, txManagerMock{}, 0)

	if err := svc.Delete(actorCtx(actor), "AST-1000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audit.records) != 1 {
		t.Fatalf("got %d audit records, want 1", len(audit.records))
	}
	rec := audit.records[0]
	if rec.Action != domain.AuditActionDelete {
		t.Errorf("action = %s, want delete", rec.Action)
	}
	if rec.OldValue == nil || rec.NewValue != nil {
		t.Errorf("delete audit should carry only the old snapshot, got old=%v new=%v", rec.OldValue, rec.NewValue)
	}
}

// ---------------------------------------------------------------------------
// Location
// ---------------------------------------------------------------------------

func TestSetLocation_NonOwnerIsForbidden(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	stranger := ctxutil.Actor{ID: uuid.New()}
	repo := &assetRepoMock{
		GetByIDFunc: func(context.Context, string) (*domain.Asset, error) {
			return &domain.Asset{PublicID: "AST-1000", CreatedBy: owner}, nil
		},
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.SetLocation(actorCtx(stranger), "AST-1000", domain.GeoPoint{Longitude: -73.98, Latitude: 40.75})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestSetLocation_CustodianMayMoveAsset(t *testing.T) {
	t.Parallel()

	custodian := uuid.New()
	audit := &auditLoggerMock{}
	repo := &assetRepoMock{
		GetByIDFunc: func(context.Context, string) (*domain.Asset, error) {
			return &domain.Asset{PublicID: "AST-1000", CreatedBy: uuid.New(), CustodianID: &custodian}, nil
		},
		SetLocationFunc: func(_ context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
			return &domain.Asset{PublicID: publicID, CreatedBy: uuid.New(), Location: &point}, nil
		},
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, audit, txManagerMock{}, 0)

	updated, err := svc.SetLocation(actorCtx(ctxutil.Actor{ID: custodian}), "AST-1000",
		domain.GeoPoint{Longitude: -73.98, Latitude: 40.75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Location == nil || updated.Location.Longitude != -73.98 {
		t.Errorf("location = %+v, want longitude -73.98", updated.Location)
	}

	if len(audit.records) != 1 || audit.records[0].Action != domain.AuditActionLocationUpdate {
		t.Fatalf("audit records = %+v, want one location_update", audit.records)
	}
}

func TestSetLocation_OutOfRangeCoordinates(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &assetRepoMock{}, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.SetLocation(context.Background(), "AST-1000", domain.GeoPoint{Longitude: 181, Latitude: -91})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("got %d field errors, want both longitude and latitude: %v", len(vErr.Errors), vErr.Errors)
	}
}

// ---------------------------------------------------------------------------
// Near
// ---------------------------------------------------------------------------

func TestNear_RejectsExcessiveRadius(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &assetRepoMock{}, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.Near(context.Background(), domain.NearQuery{Longitude: 0, Latitude: 0, RadiusMeters: 100_001})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestNear_HonorsConfiguredRadiusCeiling(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &assetRepoMock{}, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 5000)

	_, err := svc.Near(context.Background(), domain.NearQuery{Longitude: 0, Latitude: 0, RadiusMeters: 5001})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestNear_RejectsNonFiniteCoordinates(t *testing.T) {
	t.Parallel()

	repo := &assetRepoMock{
		NearFunc: func(context.Context, domain.NearQuery) ([]domain.AssetDistance, error) {
			t.Error("query with NaN input must not reach the store")
			return nil, nil
		},
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	_, err := svc.Near(context.Background(), domain.NearQuery{
		Longitude:    math.NaN(),
		Latitude:     math.NaN(),
		RadiusMeters: math.NaN(),
	})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
	if len(vErr.Errors) != 3 {
		t.Errorf("got %d field errors, want longitude, latitude and radius: %v", len(vErr.Errors), vErr.Errors)
	}
}

func TestNear_PassesValidatedQueryThrough(t *testing.T) {
	t.Parallel()

	repo := &assetRepoMock{
		NearFunc: func(_ context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
			if query.RadiusMeters != 500 {
				t.Errorf("radius = %v, want 500", query.RadiusMeters)
			}
			return []domain.AssetDistance{
				{Asset: &domain.Asset{PublicID: "AST-1000"}, DistanceMeters: 12.5},
			}, nil
		},
	}
	svc := NewService(testLogger(), repo, &idAllocatorMock{}, &auditLoggerMock{}, txManagerMock{}, 0)

	matches, err := svc.Near(context.Background(), domain.NearQuery{Longitude: -73.98, Latitude: 40.75, RadiusMeters: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].DistanceMeters != 12.5 {
		t.Errorf("matches = %+v, want one at 12.5m", matches)
	}
}
