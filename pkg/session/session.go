package session

import (
	"errors"
	"time"
)

// Session is a per-visitor value bag with dirty tracking: the manager
// persists it only when something changed.
type Session struct {
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time

	Values map[string]any
	ID     string

	dirty bool
	isNew bool
}

// New creates a new session with the given ID.
func New(id string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a value.
func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value, marking the session dirty only if the key
// existed.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool { return s.dirty }

// ClearDirty marks the session as saved. Called by the manager.
func (s *Session) ClearDirty() { s.dirty = false }

// IsNew returns true if the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// ClearNew marks the session as persisted. Called by the manager.
func (s *Session) ClearNew() { s.isNew = false }

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values.
//
// Example:
//
//	theme, err := session.Value[string](sess, "theme")
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}
	return typed, nil
}

// ValueOr returns a default when the key is absent or has another type.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
