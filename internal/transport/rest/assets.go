package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/asset"
)

// assetService defines the minimal interface needed by AssetHandler.
type assetService interface {
	Create(ctx context.Context, input asset.CreateInput) (*domain.Asset, error)
	Update(ctx context.Context, publicID string, input asset.UpdateInput) (*domain.Asset, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*domain.Asset, error)
	List(ctx context.Context, input asset.ListInput) ([]*domain.Asset, int, error)
	SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error)
}

// AssetHandler serves asset REST endpoints.
type AssetHandler struct {
	svc assetService
	log *slog.Logger
}

// NewAssetHandler creates an AssetHandler.
func NewAssetHandler(svc assetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{svc: svc, log: logger.With("handler", "assets")}
}

type createAssetRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
	CustodianID *string  `json:"custodianId"`
}

type updateAssetRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
	CustodianID *string  `json:"custodianId"`
}

type setLocationRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Create handles POST /api/v1/assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := asset.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Status:      assetStatusPtr(req.Status),
		Tags:        req.Tags,
	}
	custodianID, err := parseOptionalUUID(req.CustodianID, "custodianId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.CustodianID = custodianID

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetResponse(created))
}

// Get handles GET /api/v1/assets/{id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(found))
}

// List handles GET /api/v1/assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	input := asset.ListInput{
		Search:   queryStr(r, "search"),
		Status:   assetStatusPtr(queryStr(r, "status")),
		Category: queryStr(r, "category"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}

	assets, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  toAssetResponses(assets),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Update handles PUT /api/v1/assets/{id}.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := asset.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Status:      assetStatusPtr(req.Status),
		Tags:        req.Tags,
	}
	custodianID, err := parseOptionalUUID(req.CustodianID, "custodianId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.CustodianID = custodianID

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(updated))
}

// Delete handles DELETE /api/v1/assets/{id}.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLocation handles PUT /api/v1/assets/{id}/location.
func (h *AssetHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req setLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.SetLocation(r.Context(), r.PathValue("id"), domain.GeoPoint{
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(updated))
}

func assetStatusPtr(s *string) *domain.AssetStatus {
	if s == nil {
		return nil
	}
	status := domain.AssetStatus(*s)
	return &status
}

// parseOptionalUUID parses an optional UUID request field, reporting a
// field-scoped validation error on garbage input.
func parseOptionalUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a valid UUID")
	}
	return &id, nil
}
