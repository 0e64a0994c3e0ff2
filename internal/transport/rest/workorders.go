package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/workorder"
)

// workOrderService defines the minimal interface needed by WorkOrderHandler.
type workOrderService interface {
	Create(ctx context.Context, input workorder.CreateInput) (*domain.WorkOrder, error)
	Update(ctx context.Context, publicID string, input workorder.UpdateInput) (*domain.WorkOrder, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*domain.WorkOrder, error)
	List(ctx context.Context, input workorder.ListInput) ([]*domain.WorkOrder, int, error)
	SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.WorkOrder, error)
}

// WorkOrderHandler serves work order REST endpoints.
type WorkOrderHandler struct {
	svc workOrderService
	log *slog.Logger
}

// NewWorkOrderHandler creates a WorkOrderHandler.
func NewWorkOrderHandler(svc workOrderService, logger *slog.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc, log: logger.With("handler", "work_orders")}
}

type createWorkOrderRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority"`
	AssetID     *string  `json:"assetId"`
	AssigneeID  *string  `json:"assigneeId"`
	DueDate     *string  `json:"dueDate"`
	Tags        []string `json:"tags"`
}

type updateWorkOrderRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority"`
	Status      *string  `json:"status"`
	AssetID     *string  `json:"assetId"`
	AssigneeID  *string  `json:"assigneeId"`
	DueDate     *string  `json:"dueDate"`
	Tags        []string `json:"tags"`
}

// Create handles POST /api/v1/work-orders.
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := workorder.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    workOrderPriorityPtr(req.Priority),
		AssetID:     req.AssetID,
		Tags:        req.Tags,
	}
	assigneeID, err := parseOptionalUUID(req.AssigneeID, "assigneeId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.AssigneeID = assigneeID

	dueDate, err := parseOptionalDate(req.DueDate, "dueDate")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.DueDate = dueDate

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkOrderResponse(created))
}

// Get handles GET /api/v1/work-orders/{id}.
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkOrderResponse(found))
}

// List handles GET /api/v1/work-orders.
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	input := workorder.ListInput{
		Search:   queryStr(r, "search"),
		Status:   workOrderStatusPtr(queryStr(r, "status")),
		Priority: workOrderPriorityPtr(queryStr(r, "priority")),
		AssetID:  queryStr(r, "assetId"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}
	assigneeID, err := parseOptionalUUID(queryStr(r, "assigneeId"), "assigneeId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.AssigneeID = assigneeID

	orders, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  toWorkOrderResponses(orders),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Update handles PUT /api/v1/work-orders/{id}.
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := workorder.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    workOrderPriorityPtr(req.Priority),
		Status:      workOrderStatusPtr(req.Status),
		AssetID:     req.AssetID,
		Tags:        req.Tags,
	}
	assigneeID, err := parseOptionalUUID(req.AssigneeID, "assigneeId")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.AssigneeID = assigneeID

	dueDate, err := parseOptionalDate(req.DueDate, "dueDate")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.DueDate = dueDate

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkOrderResponse(updated))
}

// Delete handles DELETE /api/v1/work-orders/{id}.
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLocation handles PUT /api/v1/work-orders/{id}/location.
func (h *WorkOrderHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, toWorkOrderResponse(updated))
}

func workOrderPriorityPtr(s *string) *domain.WorkOrderPriority {
	if s == nil {
		return nil
	}
	priority := domain.WorkOrderPriority(*s)
	return &priority
}

func workOrderStatusPtr(s *string) *domain.WorkOrderStatus {
	if s == nil {
		return nil
	}
	status := domain.WorkOrderStatus(*s)
	return &status
}

// parseOptionalDate accepts RFC 3339 timestamps and bare dates.
func parseOptionalDate(s *string, field string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	return &t, nil
}
