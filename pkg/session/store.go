package session

import (
	"context"
	"errors"
)

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")
)

// Store defines the interface for session persistence.
type Store interface {
	// Get retrieves a session by ID. Returns ErrNotFound when absent,
	// ErrExpired when past its expiry.
	Get(ctx context.Context, id string) (*Session, error)

	// Save persists a new or updated session.
	Save(ctx context.Context, s *Session) error

	// Delete removes a session by ID. Deleting an absent session is not
	// an error.
	Delete(ctx context.Context, id string) error
}
