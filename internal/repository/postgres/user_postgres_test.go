package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

var userCols = []string{"id", "username", "password", "email", "role", "is_verified", "registered_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("reader", "hash", "reader@example.com", model.RoleGeneral, false).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(7, "reader", "hash", "reader@example.com", model.RoleGeneral, false, now))

		u, err := repo.Create(ctx, &model.User{
			Username:     "reader",
			PasswordHash: "hash",
			Email:        "reader@example.com",
			Role:         model.RoleGeneral,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, now, u.RegisteredAt)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		u, err := repo.Create(ctx, &model.User{Username: "reader", Email: "reader@example.com", Role: model.RoleGeneral})

		assert.Nil(t, u)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.Contains(t, err.Error(), "users_email_key")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("by email", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "a", "", "a@b.c", model.RoleAdmin, true, time.Now()))

		u, err := repo.FindByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
		assert.True(t, u.IsVerified)
	})

	t.Run("by username not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = ?").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(ctx, "ghost")
		assert.Nil(t, u)
		assert.True(t, IsNoRowsError(err))
	})

	t.Run("by id", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "c", "h", "c@d.e", model.RoleGeneral, false, time.Now()))

		u, err := repo.FindByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "c", u.Username)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_MarkVerified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.MarkVerified(context.Background(), 1))
	assert.True(t, IsNoRowsError(repo.MarkVerified(context.Background(), 2)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)

	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs(int64(6)).
		WillReturnError(errors.New("db down"))

	assert.NoError(t, repo.Delete(context.Background(), 5))
	assert.Error(t, repo.Delete(context.Background(), 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}
