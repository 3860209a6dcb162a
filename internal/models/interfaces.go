package models

import "context"

type StationRepository interface {
	List(ctx context.Context, filter StationFilter) ([]Station, error)
	Get(ctx context.Context, id int64) (*Station, error)
	Create(ctx context.Context, createdBy int64, in StationInput) (*Station, error)
	Update(ctx context.Context, id int64, patch StationPatch) (*Station, error)
	UpdateStatus(ctx context.Context, id int64, status StationStatus) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
}
