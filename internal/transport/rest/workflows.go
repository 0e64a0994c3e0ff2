package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/workflow"
)

// workflowService defines the minimal interface needed by WorkflowHandler.
type workflowService interface {
	Create(ctx context.Context, input workflow.CreateInput) (*domain.Workflow, error)
	Update(ctx context.Context, publicID string, input workflow.UpdateInput) (*domain.Workflow, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*domain.Workflow, error)
	List(ctx context.Context, input workflow.ListInput) ([]*domain.Workflow, int, error)
	Decide(ctx context.Context, publicID string, input workflow.DecideInput) (*domain.Workflow, error)
}

// WorkflowHandler serves workflow REST endpoints.
type WorkflowHandler struct {
	svc workflowService
	log *slog.Logger
}

// NewWorkflowHandler creates a WorkflowHandler.
func NewWorkflowHandler(svc workflowService, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{svc: svc, log: logger.With("handler", "workflows")}
}

type createWorkflowRequest struct {
	Type              string   `json:"type"`
	Title             string   `json:"title"`
	Description       *string  `json:"description"`
	LinkedEntityID    *string  `json:"linkedEntityId"`
	EstimatedCost     *float64 `json:"estimatedCost"`
	ApprovalThreshold *float64 `json:"approvalThreshold"`
}

type updateWorkflowRequest struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	LinkedEntityID    *string  `json:"linkedEntityId"`
	EstimatedCost     *float64 `json:"estimatedCost"`
	ActualCost        *float64 `json:"actualCost"`
	ApprovalThreshold *float64 `json:"approvalThreshold"`
}

type decideWorkflowRequest struct {
	Status   string  `json:"status"`
	Comments *string `json:"comments"`
}

// Create handles POST /api/v1/workflows.
func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), workflow.CreateInput{
		Type:              domain.WorkflowType(req.Type),
		Title:             req.Title,
		Description:       req.Description,
		LinkedEntityID:    req.LinkedEntityID,
		EstimatedCost:     req.EstimatedCost,
		ApprovalThreshold: req.ApprovalThreshold,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkflowResponse(created))
}

// Get handles GET /api/v1/workflows/{id}.
func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkflowResponse(found))
}

// List handles GET /api/v1/workflows.
func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	input := workflow.ListInput{
		Search: queryStr(r, "search"),
		Status: workflowStatusPtr(queryStr(r, "status")),
		Type:   workflowTypePtr(queryStr(r, "type")),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	requestedBy, err := parseOptionalUUID(queryStr(r, "requestedBy"), "requestedBy")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input.RequestedBy = requestedBy

	flows, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  toWorkflowResponses(flows),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Update handles PUT /api/v1/workflows/{id}. Only request metadata can
// change this way. Status moves exclusively through Decide.
func (h *WorkflowHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), workflow.UpdateInput{
		Title:             req.Title,
		Description:       req.Description,
		LinkedEntityID:    req.LinkedEntityID,
		EstimatedCost:     req.EstimatedCost,
		ActualCost:        req.ActualCost,
		ApprovalThreshold: req.ApprovalThreshold,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkflowResponse(updated))
}

// Delete handles DELETE /api/v1/workflows/{id}.
func (h *WorkflowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Decide handles PUT /api/v1/workflows/{id}/decision.
func (h *WorkflowHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decideWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decided, err := h.svc.Decide(r.Context(), r.PathValue("id"), workflow.DecideInput{
		Status:   domain.WorkflowStatus(req.Status),
		Comments: req.Comments,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkflowResponse(decided))
}

func workflowStatusPtr(s *string) *domain.WorkflowStatus {
	if s == nil {
		return nil
	}
	status := domain.WorkflowStatus(*s)
	return &status
}

func workflowTypePtr(s *string) *domain.WorkflowType {
	if s == nil {
		return nil
	}
	t := domain.WorkflowType(*s)
	return &t
}
