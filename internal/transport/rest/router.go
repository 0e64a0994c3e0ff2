package rest

import "net/http"

// Handlers bundles every REST handler the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Assets     *AssetHandler
	Staff      *StaffHandler
	Documents  *DocumentHandler
	WorkOrders *WorkOrderHandler
	Workflows  *WorkflowHandler
	Spatial    *SpatialHandler
	Audit      *AuditHandler
	Search     *SearchHandler
}

// NewRouter mounts all routes on a fresh ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /api/v1/assets", h.Assets.Create)
	mux.HandleFunc("GET /api/v1/assets", h.Assets.List)
	mux.HandleFunc("GET /api/v1/assets/{id}", h.Assets.Get)
	mux.HandleFunc("PUT /api/v1/assets/{id}", h.Assets.Update)
	mux.HandleFunc("DELETE /api/v1/assets/{id}", h.Assets.Delete)
	mux.HandleFunc("PUT /api/v1/assets/{id}/location", h.Assets.SetLocation)

	mux.HandleFunc("POST /api/v1/staff", h.Staff.Create)
	mux.HandleFunc("GET /api/v1/staff", h.Staff.List)
	mux.HandleFunc("GET /api/v1/staff/{id}", h.Staff.Get)
	mux.HandleFunc("PUT /api/v1/staff/{id}", h.Staff.Update)
	mux.HandleFunc("DELETE /api/v1/staff/{id}", h.Staff.Delete)
	mux.HandleFunc("PUT /api/v1/staff/{id}/location", h.Staff.SetLocation)

	mux.HandleFunc("POST /api/v1/documents", h.Documents.Create)
	mux.HandleFunc("GET /api/v1/documents", h.Documents.List)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.Documents.Get)
	mux.HandleFunc("PUT /api/v1/documents/{id}", h.Documents.Update)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.Documents.Delete)

	mux.HandleFunc("POST /api/v1/work-orders", h.WorkOrders.Create)
	mux.HandleFunc("GET /api/v1/work-orders", h.WorkOrders.List)
	mux.HandleFunc("GET /api/v1/work-orders/{id}", h.WorkOrders.Get)
	mux.HandleFunc("PUT /api/v1/work-orders/{id}", h.WorkOrders.Update)
	mux.HandleFunc("DELETE /api/v1/work-orders/{id}", h.WorkOrders.Delete)
	mux.HandleFunc("PUT /api/v1/work-orders/{id}/location", h.WorkOrders.SetLocation)

	mux.HandleFunc("POST /api/v1/workflows", h.Workflows.Create)
	mux.HandleFunc("GET /api/v1/workflows", h.Workflows.List)
	mux.HandleFunc("GET /api/v1/workflows/{id}", h.Workflows.Get)
	mux.HandleFunc("PUT /api/v1/workflows/{id}", h.Workflows.Update)
	mux.HandleFunc("DELETE /api/v1/workflows/{id}", h.Workflows.Delete)
	mux.HandleFunc("PUT /api/v1/workflows/{id}/decision", h.Workflows.Decide)

	mux.HandleFunc("GET /api/v1/spatial/{type}", h.Spatial.Near)

	mux.HandleFunc("GET /api/v1/audit-logs", h.Audit.List)
	mux.HandleFunc("GET /api/v1/audit-logs/{type}/{id}", h.Audit.GetByEntity)

	mux.HandleFunc("GET /api/v1/search", h.Search.Search)

	return mux
}
