package store

import (
	"context"
	"errors"

	"floorwatch.app/tracker/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// IssueStore is the persistence contract shared by both backing stores.
//
// Both implementations order ListByFactory results by creation time, newest
// first, and return an empty slice (never an error) for an empty partition.
// UpdateStatus diverges on an unknown id: the ArangoDB store returns
// ErrNotFound, while the local adapter silently no-ops and returns (nil, nil).
type IssueStore interface {
	// Create validates the draft, assigns an identifier, forces status to
	// OPEN, stamps both timestamps and persists the issue.
	Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error)

	// ListByFactory returns the issues of one factory partition, newest first.
	ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error)

	// UpdateStatus sets the status of an existing issue and refreshes its
	// updatedAt. Any of the three statuses is accepted; there is no
	// transition graph. factoryID scopes the lookup for the local adapter
	// and is ignored by the ArangoDB store.
	UpdateStatus(ctx context.Context, id, factoryID string, status model.Status) (*model.Issue, error)
}

// IssueEventStore records issue lifecycle events for the audit trail.
type IssueEventStore interface {
	Record(ctx context.Context, event model.IssueEvent) error
}
