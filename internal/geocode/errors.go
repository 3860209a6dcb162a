package geocode

import (
	"errors"
	"fmt"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrEmptyQuery    = errors.New("query must not be empty")
)

// ProviderError represents a failure talking to the geocoding provider
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoding provider error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("geocoding provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(message string, err error) *ProviderError {
	return &ProviderError{
		Message: message,
		Err:     err,
	}
}
