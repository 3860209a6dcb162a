package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/auth"
	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var ErrInvalidCredentials = errors.New("Invalid email or password")

// bcrypt rejects passwords longer than this many bytes.
const maxPasswordBytes = 72

type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"min=3,max=50"`
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned on successful registration and login
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

var registerMessages = map[string]string{
	"username.min": "Username must be at least 3 characters",
	"username.max": "Username cannot exceed 50 characters",
	"email.email":  "Please enter a valid email",
	"password.min": "Password must be at least 6 characters",
	"password.max": "Password cannot exceed 72 characters",
}

type Service struct {
	users  models.UserRepository
	tokens TokenIssuer
}

func NewService(users models.UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := models.ValidateStruct(req, registerMessages); err != nil {
		return nil, err
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, models.NewValidationError("Password cannot exceed 72 bytes")
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil:
		if existing.Email == req.Email {
			return nil, models.ErrDuplicateEmail
		}
		return nil, models.ErrDuplicateUsername
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) || errors.Is(err, models.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Registered user")
	return s.result(*user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Int64("user_id", user.ID).Msg("Password mismatch")
		return nil, ErrInvalidCredentials
	}

	return s.result(*user)
}

func (s *Service) result(user models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
