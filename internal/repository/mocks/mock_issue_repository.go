package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) Create(ctx context.Context, is *model.Issue) (*model.Issue, error) {
	args := m.Called(ctx, is)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id int64) (*model.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueRepository) List(ctx context.Context, f repository.IssueFilter, pq repository.PageQuery) (*repository.PageResult[model.Issue], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Issue]), args.Error(1)
}

func (m *MockIssueRepository) UpdateStatus(ctx context.Context, id int64, status model.IssueStatus, adminNotes *string) (*model.Issue, error) {
	args := m.Called(ctx, id, status, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
