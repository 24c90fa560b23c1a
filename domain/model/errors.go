package model

import (
	"errors"
	"fmt"
)

// Error categories shared by every resource. Entity-specific sentinels below
// wrap one of these so callers can match either level with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrImmutableField    = errors.New("immutable field")
	ErrConflict          = errors.New("conflict")
	ErrProtectedResource = errors.New("protected resource")
)

var (
	ErrVolumeNotFound  = fmt.Errorf("volume %w", ErrNotFound)
	ErrVolumeInvalid   = fmt.Errorf("volume %w", ErrValidation)
	ErrVolumeExists    = fmt.Errorf("volume name %w", ErrConflict)
	ErrVolumeProtected = fmt.Errorf("built-in volume is a %w", ErrProtectedResource)

	ErrVolumeRecordNotFound = fmt.Errorf("volume record %w", ErrNotFound)
	ErrVolumeRecordInvalid  = fmt.Errorf("volume record %w", ErrValidation)
	ErrVolumeRecordExists   = fmt.Errorf("volume record id %w", ErrConflict)

	ErrOperateLogNotFound = fmt.Errorf("operate log %w", ErrNotFound)
	ErrOperateLogInvalid  = fmt.Errorf("operate log %w", ErrValidation)
	ErrOperateLogExists   = fmt.Errorf("operate log id %w", ErrConflict)
	ErrOperateLogInFlight = fmt.Errorf("saga still in flight, log is a %w", ErrProtectedResource)
	ErrPageRequestInvalid = fmt.Errorf("page request %w", ErrValidation)
	ErrBatchEmpty         = fmt.Errorf("batch %w: no identifiers", ErrValidation)
)

// ImmutableFieldError reports an attempt to change a creation-time field.
func ImmutableFieldError(entity, field string) error {
	return fmt.Errorf("%w: %s.%s cannot be changed after creation", ErrImmutableField, entity, field)
}

// Reason classifies an error into a short machine-readable token used by
// batch results and the HTTP layer.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrProtectedResource):
		return "protected"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrImmutableField):
		return "immutable"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// FromReason rebuilds an error matching the category named by reason, for
// outcomes that crossed a process boundary.
func FromReason(reason, message string) error {
	var base error
	switch reason {
	case "not_found":
		base = ErrNotFound
	case "protected":
		base = ErrProtectedResource
	case "conflict":
		base = ErrConflict
	case "immutable":
		base = ErrImmutableField
	case "invalid":
		base = ErrValidation
	default:
		return errors.New(message)
	}
	if message == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, message)
}
