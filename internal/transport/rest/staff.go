package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/staff"
)

// staffService defines the minimal interface needed by StaffHandler.
type staffService interface {
	Create(ctx context.Context, input staff.CreateInput) (*domain.Staff, error)
	Update(ctx context.Context, id uuid.UUID, input staff.UpdateInput) (*domain.Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	List(ctx context.Context, input staff.ListInput) ([]*domain.Staff, int, error)
	SetLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint) (*domain.Staff, error)
}

// StaffHandler serves staff REST endpoints.
type StaffHandler struct {
	svc staffService
	log *slog.Logger
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(svc staffService, logger *slog.Logger) *StaffHandler {
	return &StaffHandler{svc: svc, log: logger.With("handler", "staff")}
}

type createStaffRequest struct {
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Position   string   `json:"position"`
	Department *string  `json:"department"`
	Status     *string  `json:"status"`
	Tags       []string `json:"tags"`
}

type updateStaffRequest struct {
	FullName   *string  `json:"fullName"`
	Email      *string  `json:"email"`
	Position   *string  `json:"position"`
	Department *string  `json:"department"`
	Status     *string  `json:"status"`
	Tags       []string `json:"tags"`
}

// Create handles POST /api/v1/staff.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), staff.CreateInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Status:     staffStatusPtr(req.Status),
		Tags:       req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStaffResponse(created))
}

// Get handles GET /api/v1/staff/{id}.
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffResponse(found))
}

// List handles GET /api/v1/staff.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	input := staff.ListInput{
		Search:     queryStr(r, "search"),
		Status:     staffStatusPtr(queryStr(r, "status")),
		Department: queryStr(r, "department"),
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}

	members, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  toStaffResponses(members),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Update handles PUT /api/v1/staff/{id}.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req updateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), id, staff.UpdateInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Status:     staffStatusPtr(req.Status),
		Tags:       req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStaffResponse(updated))
}

// Delete handles DELETE /api/v1/staff/{id}.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLocation handles PUT /api/v1/staff/{id}/location.
func (h *StaffHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req setLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.SetLocation(r.Context(), id, domain.GeoPoint{
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStaffResponse(updated))
}

func staffStatusPtr(s *string) *domain.StaffStatus {
	if s == nil {
		return nil
	}
	status := domain.StaffStatus(*s)
	return &status
}

// pathUUID parses the {id} path segment as a UUID.
func pathUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}
