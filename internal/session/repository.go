// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Repository.Load when no row has the token.
var ErrNotFound = errors.New("session not found")

// Record is the stored form of a session.
type Record struct {
	Token  string
	Data   []byte
	Expiry time.Time
}

// Repository persists session records. Blobs are loaded and saved whole.
type Repository interface {
	// Load returns the record stored under token, or ErrNotFound.
	Load(ctx context.Context, token string) (*Record, error)

	// Upsert inserts the record or replaces the blob and expiry of the
	// existing one, atomically.
	Upsert(ctx context.Context, rec Record) error

	// DeleteExpired removes records whose expiry is before now and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
