package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assetbase/backend/internal/domain"
)

type assetNearMock func(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error)

func (f assetNearMock) Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
	return f(ctx, query)
}

type staffNearMock func(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error)

func (f staffNearMock) Near(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error) {
	return f(ctx, query)
}

type workOrderNearMock func(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error)

func (f workOrderNearMock) Near(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error) {
	return f(ctx, query)
}

func spatialMux(h *SpatialHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/spatial/{type}", h.Near)
	return mux
}

func noStaffNear(_ context.Context, _ domain.NearQuery) ([]domain.StaffDistance, error) {
	return nil, nil
}

func noWorkOrderNear(_ context.Context, _ domain.NearQuery) ([]domain.WorkOrderDistance, error) {
	return nil, nil
}

func TestSpatialNear_ReturnsAssetsNearestFirst(t *testing.T) {
	t.Parallel()

	assets := assetNearMock(func(_ context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
		if query.Longitude != -73.98 || query.Latitude != 40.75 || query.RadiusMeters != 500 {
			t.Errorf("unexpected query: %+v", query)
		}
		near := sampleAsset()
		far := sampleAsset()
		far.PublicID = "AST-1001"
		return []domain.AssetDistance{
			{Asset: near, DistanceMeters: 0},
			{Asset: far, DistanceMeters: 120.5},
		}, nil
	})
	h := NewSpatialHandler(assets, staffNearMock(noStaffNear), workOrderNearMock(noWorkOrderNear), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spatial/assets?lng=-73.98&lat=40.75&radius=500", nil)
	rec := httptest.NewRecorder()

	spatialMux(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []assetDistanceResponse `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(resp.Items))
	}
	if resp.Items[0].DistanceMeters != 0 || resp.Items[1].DistanceMeters != 120.5 {
		t.Errorf("distance ordering lost: %+v", resp.Items)
	}
}

func TestSpatialNear_MissingParamsIs400(t *testing.T) {
	t.Parallel()

	h := NewSpatialHandler(
		assetNearMock(func(_ context.Context, _ domain.NearQuery) ([]domain.AssetDistance, error) {
			t.Error("service must not be called on invalid input")
			return nil, nil
		}),
		staffNearMock(noStaffNear),
		workOrderNearMock(noWorkOrderNear),
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spatial/assets?lng=-73.98", nil)
	rec := httptest.NewRecorder()

	spatialMux(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 2 {
		t.Errorf("expected lat and radius field errors, got %+v", resp.Fields)
	}
}

func TestSpatialNear_ExcessiveRadiusIs400(t *testing.T) {
	t.Parallel()

	h := NewSpatialHandler(
		assetNearMock(func(_ context.Context, _ domain.NearQuery) ([]domain.AssetDistance, error) {
			return nil, domain.NewValidationError("radius", "must be at most 100000 meters")
		}),
		staffNearMock(noStaffNear),
		workOrderNearMock(noWorkOrderNear),
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spatial/assets?lng=0&lat=0&radius=200000", nil)
	rec := httptest.NewRecorder()

	spatialMux(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSpatialNear_UnknownTypeIs404(t *testing.T) {
	t.Parallel()

	h := NewSpatialHandler(
		assetNearMock(func(_ context.Context, _ domain.NearQuery) ([]domain.AssetDistance, error) {
			return nil, nil
		}),
		staffNearMock(noStaffNear),
		workOrderNearMock(noWorkOrderNear),
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spatial/building?lng=0&lat=0&radius=100", nil)
	rec := httptest.NewRecorder()

	spatialMux(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
