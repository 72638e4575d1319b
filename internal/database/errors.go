package database

import (
	"errors"
	"strings"
)

var (
	// ErrNotConnected is returned when no database is open.
	ErrNotConnected = errors.New("not connected to a database")

	// ErrReadOnly is returned for writes on a read-only connection.
	ErrReadOnly = errors.New("database is open read-only")

	// ErrInvalidIdentifier is returned for table or column names that
	// cannot be used in a statement.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNoSuchTable is returned when a named table does not exist.
	ErrNoSuchTable = errors.New("no such table")
)

// IsLockedError reports whether err is SQLite refusing access because
// another process holds a lock.
func IsLockedError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}
