package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	pgworkflow "github.com/assetbase/backend/internal/adapter/postgres/workflow"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

type workflowRepoMock struct {
	CreateFunc       func(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error)
	UpdateFunc       func(ctx context.Context, publicID string, params domain.WorkflowUpdateParams) (*domain.Workflow, error)
	SaveDecisionFunc func(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error)
	DeleteFunc       func(ctx context.Context, publicID string) error
	GetByIDFunc      func(ctx context.Context, publicID string) (*domain.Workflow, error)
	ListFunc         func(ctx context.Context, filter pgworkflow.Filter) ([]*domain.Workflow, int, error)
}

func (m *workflowRepoMock) Create(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
	return m.CreateFunc(ctx, wf)
}
func (m *workflowRepoMock) Update(ctx context.Context, publicID string, params domain.WorkflowUpdateParams) (*domain.Workflow, error) {
	return m.UpdateFunc(ctx, publicID, params)
}
func (m *workflowRepoMock) SaveDecision(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
	return m.SaveDecisionFunc(ctx, wf)
}
func (m *workflowRepoMock) Delete(ctx context.Context, publicID string) error {
	return m.DeleteFunc(ctx, publicID)
}
func (m *workflowRepoMock) GetByID(ctx context.Context, publicID string) (*domain.Workflow, error) {
	return m.GetByIDFunc(ctx, publicID)
}
func (m *workflowRepoMock) List(ctx context.Context, filter pgworkflow.Filter) ([]*domain.Workflow, int, error) {
	return m.ListFunc(ctx, filter)
}

type idAllocatorMock struct {
	NextFunc func(ctx context.Context, entityType domain.EntityType) (string, error)
}

func (m *idAllocatorMock) Next(ctx context.Context, entityType domain.EntityType) (string, error) {
	return m.NextFunc(ctx, entityType)
}

type auditLoggerMock struct {
	records []domain.AuditRecord
}

func (m *auditLoggerMock) Log(_ context.Context, record domain.AuditRecord) error {
	m.records = append(m.records, record)
	return nil
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *workflowRepoMock, audit *auditLoggerMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ids := &idAllocatorMock{
		NextFunc: func(context.Context, domain.EntityType) (string, error) { return "WKF-1000", nil },
	}
	return NewService(logger, repo, ids, audit, txManagerMock{})
}

func actorCtx() context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{ID: uuid.New(), DisplayName: "Approver"})
}

func pendingWorkflow(publicID string) *domain.Workflow {
	return &domain.Workflow{
		PublicID:    publicID,
		Type:        domain.WorkflowTypePurchase,
		Status:      domain.WorkflowStatusPending,
		Title:       "New forklift",
		RequestedBy: uuid.New(),
	}
}

func TestDecide_ApprovesPendingWorkflow(t *testing.T) {
	t.Parallel()

	audit := &auditLoggerMock{}
	repo := &workflowRepoMock{
		GetByIDFunc: func(_ context.Context, publicID string) (*domain.Workflow, error) {
			return pendingWorkflow(publicID), nil
		},
		SaveDecisionFunc: func(_ context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
			copied := *wf
			return &copied, nil
		},
	}
	svc := newTestService(repo, audit)

	decided, err := svc.Decide(actorCtx(), "WKF-1003", DecideInput{Status: domain.WorkflowStatusApproved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decided.Status != domain.WorkflowStatusApproved {
		t.Errorf("status = %s, want approved", decided.Status)
	}
	if decided.CompletedDate == nil {
		t.Error("completed date not stamped")
	}
	if decided.DecidedBy == nil {
		t.Error("deciding actor not recorded")
	}

	if len(audit.records) != 1 {
		t.Fatalf("got %d audit records, want 1", len(audit.records))
	}
	if got := audit.records[0].NewValue["status"]; got != "approved" {
		t.Errorf("audited status = %v, want approved", got)
	}
}

func TestDecide_TerminalStatesRejectTransition(t *testing.T) {
	t.Parallel()

	for _, from := range []domain.WorkflowStatus{
		domain.WorkflowStatusApproved,
		domain.WorkflowStatusRejected,
		domain.WorkflowStatusCompleted,
	} {
		t.Run(from.String(), func(t *testing.T) {
			t.Parallel()

			repo := &workflowRepoMock{
				GetByIDFunc: func(_ context.Context, publicID string) (*domain.Workflow, error) {
					wf := pendingWorkflow(publicID)
					wf.Status = from
					return wf, nil
				},
			}
			svc := newTestService(repo, &auditLoggerMock{})

			_, err := svc.Decide(actorCtx(), "WKF-1003", DecideInput{Status: domain.WorkflowStatusApproved})
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("from %s: err = %v, want ErrInvalidTransition", from, err)
			}
		})
	}
}

func TestDecide_RejectionRequiresComments(t *testing.T) {
	t.Parallel()

	svc := newTestService(&workflowRepoMock{}, &auditLoggerMock{})

	for name, comments := range map[string]*string{
		"nil":        nil,
		"whitespace": ptr("   "),
	} {
		_, err := svc.Decide(actorCtx(), "WKF-1003", DecideInput{
			Status:   domain.WorkflowStatusRejected,
			Comments: comments,
		})

		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s comments: err = %v, want ValidationError", name, err)
		}
		if vErr.Errors[0].Field != "comments" {
			t.Errorf("%s comments: violated field = %s, want comments", name, vErr.Errors[0].Field)
		}
	}
}

func TestDecide_PendingIsNotAValidTarget(t *testing.T) {
	t.Parallel()

	svc := newTestService(&workflowRepoMock{}, &auditLoggerMock{})

	_, err := svc.Decide(actorCtx(), "WKF-1003", DecideInput{Status: domain.WorkflowStatusPending})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestDecide_AnonymousActorIsUnauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestService(&workflowRepoMock{}, &auditLoggerMock{})

	_, err := svc.Decide(context.Background(), "WKF-1003", DecideInput{Status: domain.WorkflowStatusApproved})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestCreate_StartsPending(t *testing.T) {
	t.Parallel()

	audit := &auditLoggerMock{}
	repo := &workflowRepoMock{
		CreateFunc: func(_ context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
			return wf, nil
		},
	}
	svc := newTestService(repo, audit)

	created, err := svc.Create(actorCtx(), CreateInput{
		Type:  domain.WorkflowTypePurchase,
		Title: "New forklift",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.WorkflowStatusPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	if created.PublicID != "WKF-1000" {
		t.Errorf("public id = %q, want WKF-1000", created.PublicID)
	}
	if len(audit.records) != 1 {
		t.Errorf("got %d audit records, want 1", len(audit.records))
	}
}

func ptr[T any](v T) *T { return &v }
