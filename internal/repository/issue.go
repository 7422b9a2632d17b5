package repository

import (
	"context"

	"toonranks/internal/model"
)

// IssueFilter narrows List. Nil fields match everything.
type IssueFilter struct {
	Query  string
	Type   *model.IssueType
	Status *model.IssueStatus
}

// IssueRepository persists user reports.
type IssueRepository interface {
	Create(ctx context.Context, is *model.Issue) (*model.Issue, error)
	FindByID(ctx context.Context, id int64) (*model.Issue, error)
	// List returns issues newest first.
	List(ctx context.Context, f IssueFilter, pq PageQuery) (*PageResult[model.Issue], error)
	UpdateStatus(ctx context.Context, id int64, status model.IssueStatus, adminNotes *string) (*model.Issue, error)
	Delete(ctx context.Context, id int64) error
}
