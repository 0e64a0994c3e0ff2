package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workflow is an approval request (WKF-...). Status starts at pending;
// approved, rejected and completed are terminal.
type Workflow struct {
	PublicID          string
	Type              WorkflowType
	Status            WorkflowStatus
	Title             string
	Description       *string
	LinkedEntityID    *string
	EstimatedCost     *float64
	ActualCost        *float64
	ApprovalThreshold *float64
	Comments          *string
	RequestedBy       uuid.UUID
	DecidedBy         *uuid.UUID
	CompletedDate     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WorkflowUpdateParams holds a partial update of workflow metadata.
// Status is deliberately absent: status only moves through Decide.
type WorkflowUpdateParams struct {
	Title             *string
	Description       *string
	LinkedEntityID    *string
	EstimatedCost     *float64
	ActualCost        *float64
	ApprovalThreshold *float64
}

// CanTransition reports whether a workflow may move from one status to
// another. Only pending->approved and pending->rejected are allowed; the
// other three states are terminal.
func CanTransition(from, to WorkflowStatus) bool {
	if from != WorkflowStatusPending {
		return false
	}
	return to == WorkflowStatusApproved || to == WorkflowStatusRejected
}

// ApplyDecision transitions the workflow to the given status, recording the
// deciding actor, the decision comments and the completion time. Returns
// ErrInvalidTransition without touching the workflow if the move is not
// allowed.
func (w *Workflow) ApplyDecision(to WorkflowStatus, decidedBy uuid.UUID, comments *string, at time.Time) error {
	if !CanTransition(w.Status, to) {
		return ErrInvalidTransition
	}
	w.Status = to
	w.DecidedBy = &decidedBy
	w.CompletedDate = &at
	if comments != nil {
		w.Comments = comments
	}
	return nil
}
