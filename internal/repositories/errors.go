package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err means the referenced row is absent.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
// The enrollment coordinator maps this to its already-enrolled kind
// instead of trusting the pre-check alone.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsUnavailableError reports whether err looks like a store outage or
// timeout rather than a data-level failure.
func IsUnavailableError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gorm.ErrInvalidDB)
}
