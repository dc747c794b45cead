// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package sessiontest provides an in-memory session repository for tests.
package sessiontest

import (
	"context"
	"sync"
	"time"

	"github.com/assoplat/assoplat/internal/session"
)

// MemoryRepository is a goroutine-safe session.Repository backed by a map.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]session.Record
	writes  int

	// FailUpsert, when set, is returned by every Upsert.
	FailUpsert error
	// FailLoad, when set, is returned by every Load.
	FailLoad error
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]session.Record)}
}

// Load implements session.Repository.
func (r *MemoryRepository) Load(_ context.Context, token string) (*session.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailLoad != nil {
		return nil, r.FailLoad
	}
	rec, ok := r.records[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	rec.Data = append([]byte(nil), rec.Data...)
	return &rec, nil
}

// Upsert implements session.Repository.
func (r *MemoryRepository) Upsert(_ context.Context, rec session.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpsert != nil {
		return r.FailUpsert
	}
	rec.Data = append([]byte(nil), rec.Data...)
	r.records[rec.Token] = rec
	r.writes++
	return nil
}

// DeleteExpired implements session.Repository.
func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, rec := range r.records {
		if rec.Expiry.Before(now) {
			delete(r.records, token)
			n++
		}
	}
	return n, nil
}

// Record returns the stored record for token.
func (r *MemoryRepository) Record(token string) (session.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[token]
	return rec, ok
}

// Put stores a record directly.
func (r *MemoryRepository) Put(rec session.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Token] = rec
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Writes returns how many successful Upsert calls were made.
func (r *MemoryRepository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

var _ session.Repository = (*MemoryRepository)(nil)
