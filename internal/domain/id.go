package domain

import "github.com/google/uuid"

// NewRequestID creates a unique identifier used for write request
// correlation and local history rows.
func NewRequestID() string {
	return uuid.New().String()
}
