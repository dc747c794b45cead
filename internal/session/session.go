// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"maps"
	"time"
)

// State is the lifecycle state of a Session handle.
type State int

// Handle states.
const (
	StateNew State = iota
	StateLoaded
	StateDirty
	StatePersisted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLoaded:
		return "loaded"
	case StateDirty:
		return "dirty"
	case StatePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Session is the in-memory handle of one session.
type Session struct {
	token   string
	data    map[string]any
	state   State
	durable bool
	expiry  time.Time // stored expiry; zero until durable
}

func newSession(token string) *Session {
	return &Session{token: token, data: map[string]any{}, state: StateNew}
}

func loadedSession(token string, data map[string]any, expiry time.Time) *Session {
	if data == nil {
		data = map[string]any{}
	}
	return &Session{token: token, data: data, state: StateLoaded, durable: true, expiry: expiry}
}

// Token returns the opaque session token.
func (s *Session) Token() string { return s.token }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Expiry returns the expiry held in storage, or the zero time for a session
// that was never written.
func (s *Session) Expiry() time.Time { return s.expiry }

// IsNew reports whether the session has never been written to storage.
func (s *Session) IsNew() bool { return !s.durable }

// Modified reports whether the data changed since it was loaded or last
// persisted.
func (s *Session) Modified() bool { return s.state == StateDirty }

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value under key if it is a non-empty string.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.data[key] = value
	s.state = StateDirty
}

// Unset removes key. Removing an absent key changes nothing.
func (s *Session) Unset(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.state = StateDirty
}

// Data returns a shallow copy of the session data.
func (s *Session) Data() map[string]any {
	return maps.Clone(s.data)
}

func (s *Session) needsWrite() bool {
	return !s.durable || s.state == StateDirty
}

func (s *Session) markPersisted(expiry time.Time) {
	s.durable = true
	s.expiry = expiry
	s.state = StatePersisted
}
