package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"floorwatch.app/tracker/internal/model"
)

// Partition blobs live under keys of this shape, one blob per factory.
func partitionKey(factoryID string) string {
	return "issues_" + factoryID
}

// A CAS conflict means another writer committed first; re-read and retry.
const casMaxRetries = 20

// LocalIssueStore persists issues on-device, one JSON-serialized sequence per
// factory partition, newest first. It is an alternative to the ArangoDB store
// for deployments without a server; the two are never synchronized.
//
// Every write replaces the whole partition blob. To keep a racing status
// update from silently dropping a concurrent create, each write is a
// compare-and-swap against the blob that was read, retried on conflict.
type LocalIssueStore struct {
	kv KV
}

func NewLocalIssueStore(kv KV) *LocalIssueStore {
	return &LocalIssueStore{kv: kv}
}

func (s *LocalIssueStore) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	issue := model.NewIssue(draft, newLocalID(), now)

	err := s.mutatePartition(ctx, draft.FactoryID, func(issues []model.Issue) []model.Issue {
		return append([]model.Issue{*issue}, issues...)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue created locally",
		"issue_id", issue.ID,
		"factory_id", issue.FactoryID)

	return issue, nil
}

func (s *LocalIssueStore) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	issues, _, err := s.readPartition(ctx, factoryID)
	return issues, err
}

// UpdateStatus maps over the partition replacing the matching record. An
// unknown id is a silent no-op returning (nil, nil), diverging from the
// ArangoDB store, which reports ErrNotFound.
func (s *LocalIssueStore) UpdateStatus(ctx context.Context, issueID, factoryID string, status model.Status) (*model.Issue, error) {
	var updated *model.Issue

	err := s.mutatePartition(ctx, factoryID, func(issues []model.Issue) []model.Issue {
		updated = nil
		for i := range issues {
			if issues[i].ID == issueID {
				issues[i].Status = status
				issues[i].UpdatedAt = time.Now().UTC()
				updated = &issues[i]
				break
			}
		}
		return issues
	})
	if err != nil {
		return nil, err
	}

	if updated == nil {
		slog.DebugContext(ctx, "status update for unknown issue ignored",
			"issue_id", issueID,
			"factory_id", factoryID)
		return nil, nil
	}

	slog.InfoContext(ctx, "issue status updated locally",
		"issue_id", updated.ID,
		"factory_id", factoryID,
		"status", updated.Status)

	issue := *updated
	return &issue, nil
}

func (s *LocalIssueStore) readPartition(ctx context.Context, factoryID string) ([]model.Issue, string, error) {
	blob, ok, err := s.kv.Get(ctx, partitionKey(factoryID))
	if err != nil {
		return nil, "", err
	}
	if !ok || blob == "" {
		return []model.Issue{}, "", nil
	}

	var issues []model.Issue
	if err := json.Unmarshal([]byte(blob), &issues); err != nil {
		return nil, "", fmt.Errorf("decoding partition %s: %w", factoryID, err)
	}
	return issues, blob, nil
}

func (s *LocalIssueStore) mutatePartition(ctx context.Context, factoryID string, mutate func([]model.Issue) []model.Issue) error {
	for attempt := 0; ; attempt++ {
		issues, old, err := s.readPartition(ctx, factoryID)
		if err != nil {
			return err
		}

		next := mutate(issues)

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encoding partition %s: %w", factoryID, err)
		}

		err = s.kv.CompareAndSwap(ctx, partitionKey(factoryID), old, string(data))
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCASConflict) {
			return err
		}
		if attempt+1 >= casMaxRetries {
			return fmt.Errorf("partition %s: %w", factoryID, err)
		}
	}
}

// newLocalID generates a client-side identifier. ULIDs sort by creation time
// and cannot collide on same-millisecond creates.
func newLocalID() string {
	return ulid.Make().String()
}
