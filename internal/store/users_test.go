package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var userColumnNames = []string{"id", "username", "email", "password", "created_at", "updated_at"}

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserRepo_Create(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(`INSERT INTO users \(username, email, password\)`).
			WithArgs("alice", "alice@example.com", "hash").
			WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(int64(1), "alice", "alice@example.com", "hash", now, now))

		user, err := repo.Create(context.Background(), "alice", "alice@example.com", "hash")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	tests := []struct {
		constraint string
		want       error
	}{
		{constraint: "users_email_key", want: models.ErrDuplicateEmail},
		{constraint: "users_username_key", want: models.ErrDuplicateUsername},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock := newUserRepo(t)
			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), "alice", "alice@example.com", "hash")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserRepo_FindByEmail(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(int64(1), "alice", "alice@example.com", "hash", now, now))
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userColumnNames))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = repo.FindByEmail(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepo_FindByEmailOrUsername(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`WHERE email = \$1 OR username = \$2`).
		WithArgs("carol@example.com", "alice").
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(int64(1), "alice", "alice@example.com", "hash", now, now))

	user, err := repo.FindByEmailOrUsername(context.Background(), "carol@example.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserRepo_FindByID(t *testing.T) {
	repo, mock := newUserRepo(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(9)).WillReturnError(sqlmock.ErrCancelled)

	_, err := repo.FindByID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, err, sqlmock.ErrCancelled)
}
