// Package service provides business logic for the application.
package service

import (
	"regexp"

	"github.com/oklog/ulid/v2"
)

// Email validation: pragmatic shape check, not full RFC 5322.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLength = 8
	maxNameLength     = 255

	defaultListLimit = 20
	maxListLimit     = 100
)

// newID generates a unique, lexicographically sortable entity ID.
func newID() string {
	return ulid.Make().String()
}

// clampLimit normalizes a requested page size into the allowed range.
func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return defaultListLimit
	}
	return limit
}
