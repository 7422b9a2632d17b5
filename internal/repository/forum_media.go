package repository

import (
	"context"

	"toonranks/internal/model"
)

// ForumMediaRepository persists uploaded forum image metadata.
type ForumMediaRepository interface {
	Create(ctx context.Context, m *model.ForumMedia) (*model.ForumMedia, error)
}
