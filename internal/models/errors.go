package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("Email already registered")
	ErrDuplicateUsername = errors.New("Username already taken")
)
