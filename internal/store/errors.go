package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store implementation. Callers match on
// the generic sentinels with errors.Is; the entity-specific variants wrap
// them so both levels of matching work.
var (
	// ErrNotFound is the generic absence error underlying the per-entity
	// variants below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate signals a uniqueness violation.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity signals an entity that failed validation on its way
	// into the store. The wrapped error names the failing field.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed signals an update that matched no row or violated a
	// constraint.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed signals a transaction that could not commit.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrDictionaryNotFound = fmt.Errorf("%w: dictionary", ErrNotFound)
	ErrWordNotFound       = fmt.Errorf("%w: word", ErrNotFound)
	ErrSessionNotFound    = fmt.Errorf("%w: training session", ErrNotFound)

	// ErrEmailExists signals a registration against an already-used email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrLocalNumberExists signals an insert that lost the race for a
	// per-user local number. Callers retry with a fresh NextLocalNumber
	// read.
	ErrLocalNumberExists = fmt.Errorf("%w: local number", ErrDuplicate)
)

// IsNotFoundError reports whether err is any of the not-found variants.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError carries the entity and operation alongside the underlying
// driver error, so a log line can say what failed without callers parsing
// the message.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
