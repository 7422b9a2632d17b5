package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/model"
)

type MockForumMediaRepository struct {
	mock.Mock
}

func (m *MockForumMediaRepository) Create(ctx context.Context, fm *model.ForumMedia) (*model.ForumMedia, error) {
	args := m.Called(ctx, fm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumMedia), args.Error(1)
}
