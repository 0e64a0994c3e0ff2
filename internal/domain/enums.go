package domain

// EntityType identifies the kind of record a mutation touched.
type EntityType string

const (
	EntityTypeAsset     EntityType = "asset"
	EntityTypeStaff     EntityType = "staff"
	EntityTypeDocument  EntityType = "document"
	EntityTypeWorkflow  EntityType = "workflow"
	EntityTypeWorkOrder EntityType = "work_order"
)

func (t EntityType) String() string { return string(t) }

func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeAsset, EntityTypeStaff, EntityTypeDocument, EntityTypeWorkflow, EntityTypeWorkOrder:
		return true
	}
	return false
}

// AuditAction is the kind of mutation an audit record documents.
type AuditAction string

const (
	AuditActionCreate         AuditAction = "create"
	AuditActionUpdate         AuditAction = "update"
	AuditActionDelete         AuditAction = "delete"
	AuditActionLocationUpdate AuditAction = "location_update"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionLocationUpdate:
		return true
	}
	return false
}

// AssetStatus is the lifecycle status of an asset.
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusInactive    AssetStatus = "inactive"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusArchived    AssetStatus = "archived"
)

func (s AssetStatus) String() string { return string(s) }

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusInactive, AssetStatusMaintenance, AssetStatusArchived:
		return true
	}
	return false
}

// StaffStatus is the employment status of a staff member.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

func (s StaffStatus) String() string { return string(s) }

func (s StaffStatus) IsValid() bool {
	return s == StaffStatusActive || s == StaffStatusInactive
}

// DocumentStatus is the lifecycle status of a document.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
)

func (s DocumentStatus) String() string { return string(s) }

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusActive, DocumentStatusArchived:
		return true
	}
	return false
}

// WorkflowStatus is the approval state of a workflow request.
type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "pending"
	WorkflowStatusApproved  WorkflowStatus = "approved"
	WorkflowStatusRejected  WorkflowStatus = "rejected"
	WorkflowStatusCompleted WorkflowStatus = "completed"
)

func (s WorkflowStatus) String() string { return string(s) }

func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusPending, WorkflowStatusApproved, WorkflowStatusRejected, WorkflowStatusCompleted:
		return true
	}
	return false
}

// WorkflowType categorizes what a workflow request is for.
type WorkflowType string

const (
	WorkflowTypePurchase    WorkflowType = "purchase"
	WorkflowTypeTransfer    WorkflowType = "transfer"
	WorkflowTypeDisposal    WorkflowType = "disposal"
	WorkflowTypeMaintenance WorkflowType = "maintenance"
)

func (t WorkflowType) String() string { return string(t) }

func (t WorkflowType) IsValid() bool {
	switch t {
	case WorkflowTypePurchase, WorkflowTypeTransfer, WorkflowTypeDisposal, WorkflowTypeMaintenance:
		return true
	}
	return false
}

// WorkOrderStatus is the progress status of a work order.
type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "open"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusDone       WorkOrderStatus = "done"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

func (s WorkOrderStatus) String() string { return string(s) }

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusOpen, WorkOrderStatusInProgress, WorkOrderStatusDone, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// WorkOrderPriority is the urgency of a work order.
type WorkOrderPriority string

const (
	WorkOrderPriorityLow      WorkOrderPriority = "low"
	WorkOrderPriorityMedium   WorkOrderPriority = "medium"
	WorkOrderPriorityHigh     WorkOrderPriority = "high"
	WorkOrderPriorityCritical WorkOrderPriority = "critical"
)

func (p WorkOrderPriority) String() string { return string(p) }

func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case WorkOrderPriorityLow, WorkOrderPriorityMedium, WorkOrderPriorityHigh, WorkOrderPriorityCritical:
		return true
	}
	return false
}
