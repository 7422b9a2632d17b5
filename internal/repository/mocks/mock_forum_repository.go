package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

type MockForumRepository struct {
	mock.Mock
}

func (m *MockForumRepository) ListThreads(ctx context.Context, q string, pq repository.PageQuery) ([]model.ForumThread, error) {
	args := m.Called(ctx, q, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ForumThread), args.Error(1)
}

func (m *MockForumRepository) CreateThread(ctx context.Context, nt repository.NewThread) (*model.ForumThread, error) {
	args := m.Called(ctx, nt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumRepository) FindThread(ctx context.Context, id int64) (*model.ForumThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumRepository) ListPosts(ctx context.Context, threadID int64, newestFirst bool) ([]model.ForumPost, error) {
	args := m.Called(ctx, threadID, newestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ForumPost), args.Error(1)
}

func (m *MockForumRepository) FindPost(ctx context.Context, id int64) (*model.ForumPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumPost), args.Error(1)
}

func (m *MockForumRepository) CreatePost(ctx context.Context, np repository.NewPost) (*model.ForumPost, error) {
	args := m.Called(ctx, np)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumPost), args.Error(1)
}

func (m *MockForumRepository) UpdatePost(ctx context.Context, postID int64, content string, seriesIDs []int64) (*model.ForumPost, error) {
	args := m.Called(ctx, postID, content, seriesIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumPost), args.Error(1)
}

func (m *MockForumRepository) UpdateThread(ctx context.Context, threadID int64, u repository.ThreadUpdate) (*model.ForumThread, error) {
	args := m.Called(ctx, threadID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumRepository) DeletePost(ctx context.Context, threadID, postID int64) error {
	args := m.Called(ctx, threadID, postID)
	return args.Error(0)
}

func (m *MockForumRepository) DeleteThread(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockForumRepository) Stats(ctx context.Context) (repository.ThreadStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.ThreadStats), args.Error(1)
}

func (m *MockForumRepository) ThreadLastMods(ctx context.Context, pq repository.PageQuery) ([]model.ThreadLastMod, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ThreadLastMod), args.Error(1)
}
