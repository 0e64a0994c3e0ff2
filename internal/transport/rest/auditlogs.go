package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/audit"
)

// auditService defines the minimal interface needed by AuditHandler.
type auditService interface {
	List(ctx context.Context, input audit.ListInput) (domain.AuditPage, error)
	GetByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit int) ([]domain.AuditRecord, error)
}

// AuditHandler serves read access to the audit trail. There is no write
// endpoint: audit records are only ever written by mutation services.
type AuditHandler struct {
	svc auditService
	log *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc auditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: logger.With("handler", "audit_logs")}
}

type auditPageResponse struct {
	Logs   []auditRecordResponse `json:"logs"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// List handles GET /api/v1/audit-logs?limit=&offset=&before=.
// Passing before pins the page to records at or below that id, keeping
// page boundaries stable while new records arrive.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	input := audit.ListInput{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if v := r.URL.Query().Get("before"); v != "" {
		before, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("before", "must be an integer"))
			return
		}
		input.BeforeID = &before
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, auditPageResponse{
		Logs:   toAuditRecordResponses(page.Records),
		Total:  page.Total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// GetByEntity handles GET /api/v1/audit-logs/{type}/{id}?limit=.
func (h *AuditHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := domain.EntityType(r.PathValue("type"))
	entityID := r.PathValue("id")
	limit := queryInt(r, "limit", 0)

	records, err := h.svc.GetByEntity(r.Context(), entityType, entityID, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditRecordResponses(records))
}
