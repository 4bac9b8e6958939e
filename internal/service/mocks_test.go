package service_test

import (
	"context"

	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/queue"
)

type mockIssueStore struct {
	createFn        func(ctx context.Context, draft model.IssueDraft) (*model.Issue, error)
	listByFactoryFn func(ctx context.Context, factoryID string) ([]model.Issue, error)
	updateStatusFn  func(ctx context.Context, id, factoryID string, status model.Status) (*model.Issue, error)
}

func (m *mockIssueStore) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if m.createFn != nil {
		return m.createFn(ctx, draft)
	}
	return nil, nil
}

func (m *mockIssueStore) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	if m.listByFactoryFn != nil {
		return m.listByFactoryFn(ctx, factoryID)
	}
	return []model.Issue{}, nil
}

func (m *mockIssueStore) UpdateStatus(ctx context.Context, id, factoryID string, status model.Status) (*model.Issue, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, factoryID, status)
	}
	return nil, nil
}

type mockProducer struct {
	enqueueFn    func(ctx context.Context, msg queue.EventMessage) error
	enqueueCalls []queue.EventMessage
}

func (m *mockProducer) Enqueue(ctx context.Context, msg queue.EventMessage) error {
	m.enqueueCalls = append(m.enqueueCalls, msg)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, msg)
	}
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
