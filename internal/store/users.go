package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var _ models.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING `+userColumns,
		username, email, passwordHash,
	)

	user, err := scanUser(row)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == "users_username_key" {
				return nil, models.ErrDuplicateUsername
			}
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByEmailOrUsername returns any user holding either value, preferring an email match.
func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR username = $2 ORDER BY (email = $1) DESC LIMIT 1`,
		email, username,
	)
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
