// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package postgres implements the account repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/account"
	"github.com/assoplat/assoplat/internal/store"
)

// AccountRepository implements account.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool store.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool store.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account with a freshly generated uid.
func (r *AccountRepository) Create(ctx context.Context, passwd *string) (*account.Account, error) {
	acct := &account.Account{UID: uuid.NewString(), Passwd: passwd}

	_, err := store.QuerierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO accounts (uid, passwd)
		VALUES ($1, $2)
	`, acct.UID, acct.Passwd)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("uid", acct.UID).
			Wrap(err)
	}
	return acct, nil
}

// GetByID retrieves an account by uid.
func (r *AccountRepository) GetByID(ctx context.Context, uid string) (*account.Account, error) {
	row := store.QuerierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT uid, passwd
		FROM accounts
		WHERE uid = $1
	`, uid)

	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("uid", uid).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("uid", uid).
			Wrap(err)
	}
	return acct, nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*account.Account, error) {
	var acct account.Account
	if err := row.Scan(&acct.UID, &acct.Passwd); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context-specific info
	}
	return &acct, nil
}

// Compile-time interface check.
var _ account.AccountRepository = (*AccountRepository)(nil)
