package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a unique key
	ErrDuplicate = errors.New("duplicate record")
)

// isUniqueViolation recognizes unique-constraint errors across the three
// supported drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}
