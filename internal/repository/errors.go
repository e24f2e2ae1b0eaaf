// Package repository wraps gorm queries for the portal's tables and maps
// driver errors onto a small set of sentinels
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email is already registered")
)

// isDuplicate reports unique constraint violations. TranslateError covers the
// sqlite and postgres drivers, the string checks catch drivers that don't
// implement the translator
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
