package rest

import (
	"time"

	"github.com/assetbase/backend/internal/domain"
)

type geoPointResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func toGeoPointResponse(p *domain.GeoPoint) *geoPointResponse {
	if p == nil {
		return nil
	}
	return &geoPointResponse{Longitude: p.Longitude, Latitude: p.Latitude}
}

type assetResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Category    string            `json:"category"`
	Status      string            `json:"status"`
	Tags        []string          `json:"tags"`
	CustodianID *string           `json:"custodianId,omitempty"`
	CreatedBy   string            `json:"createdBy"`
	Location    *geoPointResponse `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func toAssetResponse(a *domain.Asset) assetResponse {
	resp := assetResponse{
		ID:          a.PublicID,
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		Status:      a.Status.String(),
		Tags:        a.Tags,
		CreatedBy:   a.CreatedBy.String(),
		Location:    toGeoPointResponse(a.Location),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.CustodianID != nil {
		id := a.CustodianID.String()
		resp.CustodianID = &id
	}
	return resp
}

func toAssetResponses(assets []*domain.Asset) []assetResponse {
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	return out
}

type staffResponse struct {
	ID         string            `json:"id"`
	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Position   string            `json:"position"`
	Department *string           `json:"department,omitempty"`
	Status     string            `json:"status"`
	Tags       []string          `json:"tags"`
	Location   *geoPointResponse `json:"location,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func toStaffResponse(s *domain.Staff) staffResponse {
	return staffResponse{
		ID:         s.ID.String(),
		FullName:   s.FullName,
		Email:      s.Email,
		Position:   s.Position,
		Department: s.Department,
		Status:     s.Status.String(),
		Tags:       s.Tags,
		Location:   toGeoPointResponse(s.Location),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toStaffResponses(staff []*domain.Staff) []staffResponse {
	out := make([]staffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, toStaffResponse(s))
	}
	return out
}

type documentResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	OwnerID        string    `json:"ownerId"`
	LinkedEntityID *string   `json:"linkedEntityId,omitempty"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:             d.PublicID,
		Title:          d.Title,
		Description:    d.Description,
		Category:       d.Category,
		Status:         d.Status.String(),
		OwnerID:        d.OwnerID.String(),
		LinkedEntityID: d.LinkedEntityID,
		Tags:           d.Tags,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDocumentResponses(docs []*domain.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

type workOrderResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	AssetID     *string           `json:"assetId,omitempty"`
	AssigneeID  *string           `json:"assigneeId,omitempty"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	Tags        []string          `json:"tags"`
	CreatedBy   string            `json:"createdBy"`
	Location    *geoPointResponse `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func toWorkOrderResponse(wo *domain.WorkOrder) workOrderResponse {
	resp := workOrderResponse{
		ID:          wo.PublicID,
		Title:       wo.Title,
		Description: wo.Description,
		Priority:    wo.Priority.String(),
		Status:      wo.Status.String(),
		AssetID:     wo.AssetID,
		DueDate:     wo.DueDate,
		Tags:        wo.Tags,
		CreatedBy:   wo.CreatedBy.String(),
		Location:    toGeoPointResponse(wo.Location),
		CreatedAt:   wo.CreatedAt,
		UpdatedAt:   wo.UpdatedAt,
	}
	if wo.AssigneeID != nil {
		id := wo.AssigneeID.String()
		resp.AssigneeID = &id
	}
	return resp
}

func toWorkOrderResponses(orders []*domain.WorkOrder) []workOrderResponse {
	out := make([]workOrderResponse, 0, len(orders))
	for _, wo := range orders {
		out = append(out, toWorkOrderResponse(wo))
	}
	return out
}

type workflowResponse struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	LinkedEntityID    *string    `json:"linkedEntityId,omitempty"`
	EstimatedCost     *float64   `json:"estimatedCost,omitempty"`
	ActualCost        *float64   `json:"actualCost,omitempty"`
	ApprovalThreshold *float64   `json:"approvalThreshold,omitempty"`
	Comments          *string    `json:"comments,omitempty"`
	RequestedBy       string     `json:"requestedBy"`
	DecidedBy         *string    `json:"decidedBy,omitempty"`
	CompletedDate     *time.Time `json:"completedDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toWorkflowResponse(wf *domain.Workflow) workflowResponse {
	resp := workflowResponse{
		ID:                wf.PublicID,
		Type:              wf.Type.String(),
		Status:            wf.Status.String(),
		Title:             wf.Title,
		Description:       wf.Description,
		LinkedEntityID:    wf.LinkedEntityID,
		EstimatedCost:     wf.EstimatedCost,
		ActualCost:        wf.ActualCost,
		ApprovalThreshold: wf.ApprovalThreshold,
		Comments:          wf.Comments,
		RequestedBy:       wf.RequestedBy.String(),
		CompletedDate:     wf.CompletedDate,
		CreatedAt:         wf.CreatedAt,
		UpdatedAt:         wf.UpdatedAt,
	}
	if wf.DecidedBy != nil {
		id := wf.DecidedBy.String()
		resp.DecidedBy = &id
	}
	return resp
}

func toWorkflowResponses(flows []*domain.Workflow) []workflowResponse {
	out := make([]workflowResponse, 0, len(flows))
	for _, wf := range flows {
		out = append(out, toWorkflowResponse(wf))
	}
	return out
}

type auditRecordResponse struct {
	ID          int64          `json:"id"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	Action      string         `json:"action"`
	ActorID     string         `json:"actorId"`
	ActorName   *string        `json:"actorName,omitempty"`
	OldValue    map[string]any `json:"oldValue,omitempty"`
	NewValue    map[string]any `json:"newValue,omitempty"`
	OriginIP    *string        `json:"originIp,omitempty"`
	OriginAgent *string        `json:"originAgent,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func toAuditRecordResponse(rec domain.AuditRecord) auditRecordResponse {
	return auditRecordResponse{
		ID:          rec.ID,
		EntityType:  rec.EntityType.String(),
		EntityID:    rec.EntityID,
		Action:      rec.Action.String(),
		ActorID:     rec.ActorID.String(),
		ActorName:   rec.ActorName,
		OldValue:    rec.OldValue,
		NewValue:    rec.NewValue,
		OriginIP:    rec.OriginIP,
		OriginAgent: rec.OriginAgent,
		CreatedAt:   rec.CreatedAt,
	}
}

func toAuditRecordResponses(recs []domain.AuditRecord) []auditRecordResponse {
	out := make([]auditRecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toAuditRecordResponse(rec))
	}
	return out
}
