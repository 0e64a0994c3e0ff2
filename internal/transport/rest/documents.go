package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/internal/service/document"
)

// documentService defines the minimal interface needed by DocumentHandler.
type documentService interface {
	Create(ctx context.Context, input document.CreateInput) (*domain.Document, error)
	Update(ctx context.Context, publicID string, input document.UpdateInput) (*domain.Document, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*domain.Document, error)
	List(ctx context.Context, input document.ListInput) ([]*domain.Document, int, error)
}

// DocumentHandler serves document REST endpoints.
type DocumentHandler struct {
	svc documentService
	log *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc documentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: logger.With("handler", "documents")}
}

type createDocumentRequest struct {
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Category       string   `json:"category"`
	Status         *string  `json:"status"`
	LinkedEntityID *string  `json:"linkedEntityId"`
	Tags           []string `json:"tags"`
}

type updateDocumentRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	Status         *string  `json:"status"`
	LinkedEntityID *string  `json:"linkedEntityId"`
	Tags           []string `json:"tags"`
}

// Create handles POST /api/v1/documents.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), document.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Status:         documentStatusPtr(req.Status),
		LinkedEntityID: req.LinkedEntityID,
		Tags:           req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(created))
}

// Get handles GET /api/v1/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(found))
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	input := document.ListInput{
		Search:         queryStr(r, "search"),
		Status:         documentStatusPtr(queryStr(r, "status")),
		Category:       queryStr(r, "category"),
		LinkedEntityID: queryStr(r, "linkedEntityId"),
		Limit:          queryInt(r, "limit", 0),
		Offset:         queryInt(r, "offset", 0),
	}

	docs, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  toDocumentResponses(docs),
		Total:  total,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Update handles PUT /api/v1/documents/{id}.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), document.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Status:         documentStatusPtr(req.Status),
		LinkedEntityID: req.LinkedEntityID,
		Tags:           req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(updated))
}

// Delete handles DELETE /api/v1/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func documentStatusPtr(s *string) *domain.DocumentStatus {
	if s == nil {
		return nil
	}
	status := domain.DocumentStatus(*s)
	return &status
}
