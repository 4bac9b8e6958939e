package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"floorwatch.app/tracker/common/logger"
	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/store"
)

// ErrInvalidStatus is returned when a status update names a value outside the
// OPEN / IN_PROGRESS / RESOLVED enum.
var ErrInvalidStatus = errors.New("invalid issue status")

// IssueService is the client-facing façade over an IssueStore. Both backing
// stores expose the same contract here; callers never know which one is wired.
type IssueService interface {
	Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error)
	ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error)
	UpdateStatus(ctx context.Context, issueID, factoryID string, status model.Status) (*model.Issue, error)
}

type issueService struct {
	issues store.IssueStore
	events queue.Producer
	// timeout bounds each store call; zero means wait until the store
	// answers definitively.
	timeout time.Duration
}

func NewIssueService(issues store.IssueStore, events queue.Producer, timeout time.Duration) IssueService {
	return &issueService{
		issues:  issues,
		events:  events,
		timeout: timeout,
	}
}

func (s *issueService) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		FactoryID: logger.Ptr(draft.FactoryID),
		Component: "tracker.service.issue",
	})

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	issue, err := s.issues.Create(opCtx, draft)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	s.publish(ctx, queue.EventMessage{
		IssueID:   issue.ID,
		FactoryID: issue.FactoryID,
		EventType: model.IssueEventCreated,
		Status:    issue.Status,
	})

	return issue, nil
}

func (s *issueService) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	issues, err := s.issues.ListByFactory(opCtx, factoryID)
	if err != nil {
		return nil, fmt.Errorf("listing issues for factory %s: %w", factoryID, err)
	}
	return issues, nil
}

func (s *issueService) UpdateStatus(ctx context.Context, issueID, factoryID string, status model.Status) (*model.Issue, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		IssueID:   logger.Ptr(issueID),
		Component: "tracker.service.issue",
	})

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	issue, err := s.issues.UpdateStatus(opCtx, issueID, factoryID, status)
	if err != nil {
		return nil, err
	}

	// The local store signals an unknown id by returning nothing.
	if issue != nil {
		s.publish(ctx, queue.EventMessage{
			IssueID:   issue.ID,
			FactoryID: issue.FactoryID,
			EventType: model.IssueEventStatusChanged,
			Status:    issue.Status,
		})
	}

	return issue, nil
}

// publish is best-effort: the write already succeeded, so a stream failure is
// logged and swallowed rather than surfaced to the caller.
func (s *issueService) publish(ctx context.Context, msg queue.EventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish issue event",
			"error", err,
			"issue_id", msg.IssueID,
			"event_type", msg.EventType)
	}
}

func (s *issueService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
