package repository

import (
	"context"

	"toonranks/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user and returns the stored row. Duplicate username or
	// email yields ErrConflict.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByEmail matches the stored lower-case email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	MarkVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
