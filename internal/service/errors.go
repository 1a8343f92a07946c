package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/store"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// Error carries a message meant for the user alongside one of the sentinel
// errors above, so callers can both errors.Is it and show it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// notFound converts store.ErrNotFound into ErrNotFound with a message naming
// what was missing; other errors pass through.
func notFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, "%s not found", what)
	}
	return err
}

// locate geocodes addr. An address the geocoder cannot place is the user's to
// fix, so it comes back as a ValidationError.
func locate(ctx context.Context, g geo.Geocoder, addr models.Address) (*models.Coordinates, error) {
	coords, err := g.Geocode(ctx, addr)
	if errors.Is(err, geo.ErrNoResults) {
		return nil, &ValidationError{Field: "address", Message: "We could not find that address. Check the street and postcode."}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	return coords, nil
}
