package bidding

import (
	"context"
	"errors"
	"fmt"

	"bid-lifecycle/internal/biddingerrors"
)

// domainErrors are outcomes the store reports on purpose; retrying them
// cannot change the answer.
var domainErrors = []error{
	biddingerrors.ErrValidation,
	biddingerrors.ErrNotFound,
	biddingerrors.ErrAuthorization,
	biddingerrors.ErrInvalidState,
	biddingerrors.ErrConflict,
	biddingerrors.ErrStatusMismatch,
	biddingerrors.ErrBidExists,
}

func isDomainErr(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// isTransient reports whether a store error is worth retrying
func isTransient(err error) bool {
	if err == nil || isDomainErr(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// storeErr wraps a record store error for the caller. Domain outcomes keep
// their kind; anything else becomes a persistence failure.
func storeErr(action string, err error) error {
	if isDomainErr(err) {
		return fmt.Errorf("service: failed to %s: %w", action, err)
	}
	return fmt.Errorf("service: %w - failed to %s: %w", biddingerrors.ErrPersistence, action, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("service: %w - %s", biddingerrors.ErrValidation, fmt.Sprintf(format, args...))
}

func invalidStateErr(format string, args ...any) error {
	return fmt.Errorf("service: %w - %s", biddingerrors.ErrInvalidState, fmt.Sprintf(format, args...))
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("service: %w - %s", biddingerrors.ErrConflict, fmt.Sprintf(format, args...))
}
