package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from WorkflowStatus
		to   WorkflowStatus
		want bool
	}{
		{WorkflowStatusPending, WorkflowStatusApproved, true},
		{WorkflowStatusPending, WorkflowStatusRejected, true},
		{WorkflowStatusPending, WorkflowStatusCompleted, false},
		{WorkflowStatusPending, WorkflowStatusPending, false},
		{WorkflowStatusApproved, WorkflowStatusRejected, false},
		{WorkflowStatusApproved, WorkflowStatusApproved, false},
		{WorkflowStatusRejected, WorkflowStatusApproved, false},
		{WorkflowStatusCompleted, WorkflowStatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s): got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApplyDecision_Approve(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	now := time.Now()
	wf := &Workflow{PublicID: "WKF-1000", Status: WorkflowStatusPending}

	if err := wf.ApplyDecision(WorkflowStatusApproved, actor, nil, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.Status != WorkflowStatusApproved {
		t.Errorf("status: got %s, want approved", wf.Status)
	}
	if wf.CompletedDate == nil || !wf.CompletedDate.Equal(now) {
		t.Errorf("completed date: got %v, want %v", wf.CompletedDate, now)
	}
	if wf.DecidedBy == nil || *wf.DecidedBy != actor {
		t.Errorf("decided by: got %v, want %v", wf.DecidedBy, actor)
	}
}

func TestApplyDecision_RejectWithComments(t *testing.T) {
	t.Parallel()

	comments := "budget exceeded"
	wf := &Workflow{PublicID: "WKF-1001", Status: WorkflowStatusPending}

	if err := wf.ApplyDecision(WorkflowStatusRejected, uuid.New(), &comments, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.Comments == nil || *wf.Comments != comments {
		t.Errorf("comments: got %v, want %q", wf.Comments, comments)
	}
}

func TestApplyDecision_FromTerminalState(t *testing.T) {
	t.Parallel()

	for _, from := range []WorkflowStatus{WorkflowStatusApproved, WorkflowStatusRejected, WorkflowStatusCompleted} {
		wf := &Workflow{PublicID: "WKF-1002", Status: from}

		err := wf.ApplyDecision(WorkflowStatusRejected, uuid.New(), nil, time.Now())
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("from %s: expected ErrInvalidTransition, got %v", from, err)
		}
		if wf.Status != from {
			t.Errorf("from %s: status changed to %s", from, wf.Status)
		}
		if wf.CompletedDate != nil {
			t.Errorf("from %s: completed date was set", from)
		}
	}
}
