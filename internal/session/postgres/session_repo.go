// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package postgres implements the session repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/session"
	"github.com/assoplat/assoplat/internal/store"
)

// SessionRepository implements session.Repository using PostgreSQL.
type SessionRepository struct {
	pool store.Pool
	tx   *store.Transactor
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool store.Pool) *SessionRepository {
	return &SessionRepository{pool: pool, tx: store.NewTransactor(pool)}
}

// Load retrieves a session record by token.
func (r *SessionRepository) Load(ctx context.Context, token string) (*session.Record, error) {
	rec := session.Record{Token: token}
	err := store.QuerierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT data, expiry
		FROM sessions
		WHERE sid = $1
	`, token).Scan(&rec.Data, &rec.Expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(session.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_LOAD_FAILED").
			With("operation", "load session").
			Wrap(err)
	}
	return &rec, nil
}

// Upsert inserts the record or replaces the blob and expiry of an existing
// one, inside a transaction.
func (r *SessionRepository) Upsert(ctx context.Context, rec session.Record) error {
	return r.tx.InTransaction(ctx, func(ctx context.Context) error {
		_, err := store.QuerierFrom(ctx, r.pool).Exec(ctx, `
			INSERT INTO sessions (sid, data, expiry)
			VALUES ($1, $2, $3)
			ON CONFLICT (sid) DO UPDATE SET
				data = EXCLUDED.data,
				expiry = EXCLUDED.expiry
		`, rec.Token, rec.Data, rec.Expiry)
		if err != nil {
			return oops.Code("SESSION_SAVE_FAILED").
				With("operation", "upsert session").
				Wrap(err)
		}
		return nil
	})
}

// DeleteExpired removes sessions that expired before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := store.QuerierFrom(ctx, r.pool).Exec(ctx, `
		DELETE FROM sessions
		WHERE expiry < $1
	`, now)
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// Compile-time interface check.
var _ session.Repository = (*SessionRepository)(nil)
