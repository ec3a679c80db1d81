package bunstore

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// uniqueViolation is the Postgres error code for a violated unique
// constraint.
const uniqueViolation = "23505"

// isDuplicateName reports whether err is a name-uniqueness violation. It
// understands the sqlite and Postgres drivers natively and falls back to
// message matching for anything else, so unknown drivers degrade to a
// StoreError instead of a false duplicate.
func isDuplicateName(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
