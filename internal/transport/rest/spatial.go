package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assetbase/backend/internal/domain"
)

type assetNearService interface {
	Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error)
}

type staffNearService interface {
	Near(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error)
}

type workOrderNearService interface {
	Near(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error)
}

// SpatialHandler serves proximity queries across the geo-capable entity
// types. Results come back ordered nearest first.
type SpatialHandler struct {
	assets     assetNearService
	staff      staffNearService
	workOrders workOrderNearService
	log        *slog.Logger
}

// NewSpatialHandler creates a SpatialHandler.
func NewSpatialHandler(
	assets assetNearService,
	staff staffNearService,
	workOrders workOrderNearService,
	logger *slog.Logger,
) *SpatialHandler {
	return &SpatialHandler{
		assets:     assets,
		staff:      staff,
		workOrders: workOrders,
		log:        logger.With("handler", "spatial"),
	}
}

// nearResponse is the proximity query envelope. Matches carry the entity
// plus its distance, nearest first.
type nearResponse struct {
	Items any `json:"items"`
}

type assetDistanceResponse struct {
	Asset          assetResponse `json:"asset"`
	DistanceMeters float64       `json:"distanceMeters"`
}

type staffDistanceResponse struct {
	Staff          staffResponse `json:"staff"`
	DistanceMeters float64       `json:"distanceMeters"`
}

type workOrderDistanceResponse struct {
	WorkOrder      workOrderResponse `json:"workOrder"`
	DistanceMeters float64           `json:"distanceMeters"`
}

// Near handles GET /api/v1/spatial/{type}?lng=&lat=&radius=.
// {type} selects which entity store to query: assets, staff or work-orders.
func (h *SpatialHandler) Near(w http.ResponseWriter, r *http.Request) {
	query, err := nearQueryFromRequest(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	switch r.PathValue("type") {
	case "assets":
		matches, err := h.assets.Near(r.Context(), query)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		out := make([]assetDistanceResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, assetDistanceResponse{
				Asset:          toAssetResponse(m.Asset),
				DistanceMeters: m.DistanceMeters,
			})
		}
		writeJSON(w, http.StatusOK, nearResponse{Items: out})
	case "staff":
		matches, err := h.staff.Near(r.Context(), query)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		out := make([]staffDistanceResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, staffDistanceResponse{
				Staff:          toStaffResponse(m.Staff),
				DistanceMeters: m.DistanceMeters,
			})
		}
		writeJSON(w, http.StatusOK, nearResponse{Items: out})
	case "work-orders":
		matches, err := h.workOrders.Near(r.Context(), query)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		out := make([]workOrderDistanceResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, workOrderDistanceResponse{
				WorkOrder:      toWorkOrderResponse(m.WorkOrder),
				DistanceMeters: m.DistanceMeters,
			})
		}
		writeJSON(w, http.StatusOK, nearResponse{Items: out})
	default:
		writeError(w, http.StatusNotFound, "unknown spatial entity type")
	}
}

// nearQueryFromRequest pulls the origin and radius off the query string.
// Missing parameters surface as field errors so the service-level bounds
// check sees real numbers only.
func nearQueryFromRequest(r *http.Request) (domain.NearQuery, error) {
	var errs []domain.FieldError

	lng, ok := queryFloat(r, "lng")
	if !ok {
		errs = append(errs, domain.FieldError{Field: "lng", Message: "required number"})
	}
	lat, ok := queryFloat(r, "lat")
	if !ok {
		errs = append(errs, domain.FieldError{Field: "lat", Message: "required number"})
	}
	radius, ok := queryFloat(r, "radius")
	if !ok {
		errs = append(errs, domain.FieldError{Field: "radius", Message: "required number"})
	}

	if len(errs) > 0 {
		return domain.NearQuery{}, domain.NewValidationErrors(errs)
	}
	return domain.NearQuery{Longitude: lng, Latitude: lat, RadiusMeters: radius}, nil
}
