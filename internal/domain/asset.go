package domain

import (
	"time"

	"github.com/google/uuid"
)

// Asset is a tracked physical or logical asset. PublicID is the stable
// human-readable identifier (AST-1000, AST-1001, ...).
type Asset struct {
	PublicID    string
	Name        string
	Description *string
	Category    string
	Status      AssetStatus
	Tags        []string
	CustodianID *uuid.UUID
	CreatedBy   uuid.UUID
	Location    *GeoPoint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssetUpdateParams holds a partial asset update. Nil means "leave unchanged".
type AssetUpdateParams struct {
	Name        *string
	Description *string
	Category    *string
	Status      *AssetStatus
	Tags        []string
	CustodianID *uuid.UUID
}

// Staff is a staff member. Staff carry opaque UUIDs, not sequenced
// identifiers.
type Staff struct {
	ID         uuid.UUID
	FullName   string
	Email      string
	Position   string
	Department *string
	Status     StaffStatus
	Tags       []string
	Location   *GeoPoint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StaffUpdateParams holds a partial staff update.
type StaffUpdateParams struct {
	FullName   *string
	Email      *string
	Position   *string
	Department *string
	Status     *StaffStatus
	Tags       []string
}

// Document is a managed document record (DOC-...).
type Document struct {
	PublicID       string
	Title          string
	Description    *string
	Category       string
	Status         DocumentStatus
	OwnerID        uuid.UUID
	LinkedEntityID *string
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DocumentUpdateParams holds a partial document update.
type DocumentUpdateParams struct {
	Title          *string
	Description    *string
	Category       *string
	Status         *DocumentStatus
	LinkedEntityID *string
	Tags           []string
}

// WorkOrder is a maintenance or service task (WO-...).
type WorkOrder struct {
	PublicID    string
	Title       string
	Description *string
	Priority    WorkOrderPriority
	Status      WorkOrderStatus
	AssetID     *string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Tags        []string
	CreatedBy   uuid.UUID
	Location    *GeoPoint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkOrderUpdateParams holds a partial work order update.
type WorkOrderUpdateParams struct {
	Title       *string
	Description *string
	Priority    *WorkOrderPriority
	Status      *WorkOrderStatus
	AssetID     *string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Tags        []string
}
