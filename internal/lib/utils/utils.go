// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import "github.com/google/uuid"

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.NewString()
}
