// Package repository holds the SQL data access for users, houses and
// bookings.  Queries are written for MySQL and stay within the subset that
// SQLite also accepts so the same code runs against the test database.
//
// The sentinel values below let the service layer tell failure scenarios
// apart without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a row
// owned by someone else.  The row is left untouched.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with a unique constraint.
// Use errors.As with *DuplicateError to learn which column collided.
var ErrConflict = errors.New("conflict")

// ErrHouseUnavailable is returned when a booking targets a house that is
// already taken.
var ErrHouseUnavailable = errors.New("house is not available")

// DuplicateError reports which unique column a write collided with.  It
// matches ErrConflict under errors.Is.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate " + e.Field }

func (e *DuplicateError) Is(target error) bool { return target == ErrConflict }

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// asDuplicate converts a unique-key violation from MySQL or SQLite into a
// *DuplicateError naming one of fields.  Other errors are returned as is.
func asDuplicate(err error, fields ...string) error {
	if err == nil {
		return nil
	}
	var msg string
	var myErr *mysql.MySQLError
	switch {
	case errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry:
		msg = myErr.Message
	case strings.Contains(err.Error(), "UNIQUE constraint failed"), strings.Contains(err.Error(), "1062"):
		msg = err.Error()
	default:
		return err
	}
	// MySQL names the key (uq_users_email), SQLite the column (users.email).
	for _, f := range fields {
		if strings.Contains(msg, "_"+f+"'") || strings.Contains(msg, "."+f) {
			return &DuplicateError{Field: f}
		}
	}
	return &DuplicateError{}
}
