package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist at read time.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// ConsistencyError signals that a recomputation would produce an impossible
// derived value (negative cost or total). It is never clamped away; the
// enclosing transaction is always rolled back.
type ConsistencyError struct {
	Entity   string
	EntityID int64
	Detail   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation on %s id=%d: %s", e.Entity, e.EntityID, e.Detail)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConsistency reports whether err is a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
