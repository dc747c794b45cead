// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package account

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Account is a registered user.
type Account struct {
	UID    string
	Passwd *string // nil when the account has no password
}

// Digest returns the stored password digest, or "" if none is set.
func (a *Account) Digest() string {
	if a.Passwd == nil {
		return ""
	}
	return *a.Passwd
}

// CheckDigest compares a supplied digest with the stored one, ignoring case.
// An account without a password only matches the empty digest.
func (a *Account) CheckDigest(digest string) bool {
	return strings.EqualFold(a.Digest(), digest)
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account with a freshly generated uid.
	Create(ctx context.Context, passwd *string) (*Account, error)

	// GetByID retrieves an account by uid.
	// Returns ErrNotFound if no account has the given uid.
	GetByID(ctx context.Context, uid string) (*Account, error)
}

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the context passed to fn participate in that transaction; the
// transaction commits only if fn returns nil.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
