package services

import (
	"errors"
	"fmt"

	"github.com/juniu86/rr-guanabara/internal/domain/workflow"
)

var (
	// ErrNotFound is wrapped by every lookup miss below.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrStationNotFound       = fmt.Errorf("station %w", ErrNotFound)
	ErrMaintenanceNotFound   = fmt.Errorf("maintenance %w", ErrNotFound)
	ErrChecklistItemNotFound = fmt.Errorf("checklist item %w", ErrNotFound)
	ErrDraftNotFound         = fmt.Errorf("draft %w", ErrNotFound)

	ErrForbidden         = workflow.ErrForbidden
	ErrInvalidTransition = workflow.ErrInvalidTransition

	// ErrWrongPassword covers both login and the deletion confirmation.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable means an external dependency is not configured or not reachable.
	ErrUnavailable = errors.New("service unavailable")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
