package handler_test

import (
	"context"

	"floorwatch.app/tracker/internal/model"
)

type mockIssueService struct {
	createFn        func(ctx context.Context, draft model.IssueDraft) (*model.Issue, error)
	listByFactoryFn func(ctx context.Context, factoryID string) ([]model.Issue, error)
	updateStatusFn  func(ctx context.Context, issueID, factoryID string, status model.Status) (*model.Issue, error)
}

func (m *mockIssueService) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if m.createFn != nil {
		return m.createFn(ctx, draft)
	}
	return nil, nil
}

func (m *mockIssueService) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	if m.listByFactoryFn != nil {
		return m.listByFactoryFn(ctx, factoryID)
	}
	return []model.Issue{}, nil
}

func (m *mockIssueService) UpdateStatus(ctx context.Context, issueID, factoryID string, status model.Status) (*model.Issue, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, issueID, factoryID, status)
	}
	return nil, nil
}

type mockAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, nil
}

type mockCatalog struct {
	listFn func(ctx context.Context) []model.Factory
	getFn  func(ctx context.Context, id string) (*model.Factory, error)
}

func (m *mockCatalog) List(ctx context.Context) []model.Factory {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Factory{}
}

func (m *mockCatalog) Get(ctx context.Context, id string) (*model.Factory, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}
