package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrConflict              = errors.New("conflict")
	ErrCapacity              = errors.New("capacity exceeded")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func requireUser(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: authenticated user is required", ErrUnauthorized)
	}
	return nil
}
