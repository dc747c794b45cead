// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/apierr"
	"github.com/assoplat/assoplat/internal/store"
)

// CredentialRepository implements account.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	pool store.Pool
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool store.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// Create stores a credential.
func (r *CredentialRepository) Create(ctx context.Context, cred account.Credential) error {
	_, err := store.QuerierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO credentials (cred_type, cred_value, uid)
		VALUES ($1, $2, $3)
	`, string(cred.Type), cred.Value, cred.UID)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apierr.NewDuplicateCredential(string(cred.Type), cred.Value, err)
	}
	return oops.Code("CREDENTIAL_CREATE_FAILED").
		With("operation", "insert credential").
		With("cred_type", string(cred.Type)).
		With("uid", cred.UID).
		Wrap(err)
}

// Lookup resolves a (type, value) pair to its account.
func (r *CredentialRepository) Lookup(ctx context.Context, credType account.CredentialType, value string) (*account.Account, error) {
	row := store.QuerierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT a.uid, a.passwd
		FROM credentials c
		JOIN accounts a ON a.uid = c.uid
		WHERE c.cred_type = $1 AND c.cred_value = $2
	`, string(credType), value)

	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").
			With("cred_type", string(credType)).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_LOOKUP_FAILED").
			With("operation", "lookup credential").
			With("cred_type", string(credType)).
			Wrap(err)
	}
	return acct, nil
}

// Compile-time interface check.
var _ account.CredentialRepository = (*CredentialRepository)(nil)
