package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assetbase/backend/internal/service/search"
)

// searchService defines the minimal interface needed by SearchHandler.
type searchService interface {
	Search(ctx context.Context, query string, limit int) (*search.Result, error)
}

// SearchHandler serves the cross-entity free-text search endpoint.
type SearchHandler struct {
	svc searchService
	log *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc searchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, log: logger.With("handler", "search")}
}

type searchResponse struct {
	Assets     []assetResponse     `json:"assets"`
	Staff      []staffResponse     `json:"staff"`
	Documents  []documentResponse  `json:"documents"`
	WorkOrders []workOrderResponse `json:"workOrders"`
	Workflows  []workflowResponse  `json:"workflows"`
}

// Search handles GET /api/v1/search?q=&limit=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 0))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Assets:     toAssetResponses(result.Assets),
		Staff:      toStaffResponses(result.Staff),
		Documents:  toDocumentResponses(result.Documents),
		WorkOrders: toWorkOrderResponses(result.WorkOrders),
		Workflows:  toWorkflowResponses(result.Workflows),
	})
}
