package lookup

import (
	"errors"
	"fmt"
)

// ErrEmptyName is returned when a caller asks to intern the empty string.
var ErrEmptyName = errors.New("lookup: name must not be empty")

// NotFoundError reports that no entry exists for the requested id or name.
type NotFoundError struct {
	Table string
	ID    int64
	Name  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("lookup: no entry named %q in table %s", e.Name, e.Table)
	}
	return fmt.Sprintf("lookup: no entry with id %d in table %s", e.ID, e.Table)
}

// DuplicateNameError reports that a create lost a uniqueness race: another
// writer persisted the same name first. The cache consumes this internally
// and re-reads the winner's row; callers of Cache never see it.
type DuplicateNameError struct {
	Table string
	Name  string
	Err   error
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("lookup: name %q already exists in table %s", e.Name, e.Table)
}

// Unwrap exposes the underlying driver error.
func (e *DuplicateNameError) Unwrap() error { return e.Err }

// StoreError wraps any store failure other than the expected not-found and
// duplicate-name conditions. It is propagated verbatim; retry policy belongs
// to the store client, not to this package.
type StoreError struct {
	Table string
	Op    string
	Err   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("lookup: store %s failed on table %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StoreError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a *NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicateName reports whether err is a *DuplicateNameError anywhere in
// its chain.
func IsDuplicateName(err error) bool {
	var dup *DuplicateNameError
	return errors.As(err, &dup)
}
