package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/asset"
)

type assetServiceMock struct {
	createFn      func(ctx context.Context, input asset.CreateInput) (*domain.Asset, error)
	updateFn      func(ctx context.Context, publicID string, input asset.UpdateInput) (*domain.Asset, error)
	deleteFn      func(ctx context.Context, publicID string) error
	getFn         func(ctx context.Context, publicID string) (*domain.Asset, error)
	listFn        func(ctx context.Context, input asset.ListInput) ([]*domain.Asset, int, error)
	setLocationFn func(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error)
}

func (m *assetServiceMock) Create(ctx context.Context, input asset.CreateInput) (*domain.Asset, error) {
	return m.createFn(ctx, input)
}

func (m *assetServiceMock) Update(ctx context.Context, publicID string, input asset.UpdateInput) (*domain.Asset, error) {
	return m.updateFn(ctx, publicID, input)
}

func (m *assetServiceMock) Delete(ctx context.Context, publicID string) error {
	return m.deleteFn(ctx, publicID)
}

func (m *assetServiceMock) Get(ctx context.Context, publicID string) (*domain.Asset, error) {
	return m.getFn(ctx, publicID)
}

func (m *assetServiceMock) List(ctx context.Context, input asset.ListInput) ([]*domain.Asset, int, error) {
	return m.listFn(ctx, input)
}

func (m *assetServiceMock) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
	return m.setLocationFn(ctx, publicID, point)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleAsset() *domain.Asset {
	return &domain.Asset{
		PublicID:  "AST-1000",
		Name:      "Forklift",
		Category:  "machinery",
		Status:    domain.AssetStatusActive,
		Tags:      []string{"warehouse"},
		CreatedBy: uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestAssetCreate_Returns201(t *testing.T) {
	t.Parallel()

	svc := &assetServiceMock{
		createFn: func(_ context.Context, input asset.CreateInput) (*domain.Asset, error) {
			if input.Name != "Forklift" {
				t.Errorf("expected name 'Forklift', got %q", input.Name)
			}
			return sampleAsset(), nil
		},
	}
	h := NewAssetHandler(svc, testLogger())

	body := `{"name":"Forklift","category":"machinery","tags":["warehouse"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp assetResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "AST-1000" {
		t.Errorf("expected id AST-1000, got %q", resp.ID)
	}
}

func TestAssetCreate_ValidationErrorListsAllFields(t *testing.T) {
	t.Parallel()

	svc := &assetServiceMock{
		createFn: func(_ context.Context, _ asset.CreateInput) (*domain.Asset, error) {
			return nil, domain.NewValidationErrors([]domain.FieldError{
				{Field: "name", Message: "required"},
				{Field: "category", Message: "required"},
			})
		},
	}
	h := NewAssetHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(resp.Fields))
	}
	if resp.Fields[0].Field != "name" || resp.Fields[1].Field != "category" {
		t.Errorf("unexpected field order: %+v", resp.Fields)
	}
}

func TestAssetCreate_MalformedBodyIs400(t *testing.T) {
	t.Parallel()

	h := NewAssetHandler(&assetServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAssetGet_NotFoundIs404(t *testing.T) {
	t.Parallel()

	svc := &assetServiceMock{
		getFn: func(_ context.Context, _ string) (*domain.Asset, error) {
			return nil, domain.ErrNotFound
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/assets/{id}", NewAssetHandler(svc, testLogger()).Get)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/AST-9999", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestAssetSetLocation_PassesPointThrough(t *testing.T) {
	t.Parallel()

	var got domain.GeoPoint
	svc := &assetServiceMock{
		setLocationFn: func(_ context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
			if publicID != "AST-1000" {
				t.Errorf("expected id AST-1000, got %q", publicID)
			}
			got = point
			a := sampleAsset()
			a.Location = &point
			return a, nil
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/assets/{id}/location", NewAssetHandler(svc, testLogger()).SetLocation)

	body := `{"longitude":-73.98,"latitude":40.75}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/assets/AST-1000/location", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Longitude != -73.98 || got.Latitude != 40.75 {
		t.Errorf("unexpected point: %+v", got)
	}
}

func TestAssetSetLocation_ForbiddenIs403(t *testing.T) {
	t.Parallel()

	svc := &assetServiceMock{
		setLocationFn: func(_ context.Context, _ string, _ domain.GeoPoint) (*domain.Asset, error) {
			return nil, domain.ErrForbidden
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/assets/{id}/location", NewAssetHandler(svc, testLogger()).SetLocation)

	body := `{"longitude":0,"latitude":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/assets/AST-1000/location", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestAssetList_ReturnsPage(t *testing.T) {
	t.Parallel()

	svc := &assetServiceMock{
		listFn: func(_ context.Context, input asset.ListInput) ([]*domain.Asset, int, error) {
			if input.Limit != 5 || input.Offset != 10 {
				t.Errorf("unexpected pagination: %+v", input)
			}
			return []*domain.Asset{sampleAsset()}, 42, nil
		},
	}
	h := NewAssetHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp listResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 42 {
		t.Errorf("expected total 42, got %d", resp.Total)
	}
}
