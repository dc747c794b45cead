// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package account

import (
	"context"
)

// CredentialType names the kind of a login credential.
type CredentialType string

// Supported credential types.
const (
	CredentialName  CredentialType = "name"
	CredentialEmail CredentialType = "email"
	CredentialPhone CredentialType = "phone"
)

// Credential binds a (type, value) pair to an account.
type Credential struct {
	Type  CredentialType
	Value string
	UID   string
}

// CredentialRepository manages credential persistence.
type CredentialRepository interface {
	// Create stores a credential. Returns a DuplicateCredential api error
	// if the (type, value) pair is already bound.
	Create(ctx context.Context, cred Credential) error

	// Lookup resolves a (type, value) pair to its account.
	// Returns ErrNotFound if the pair is not bound.
	Lookup(ctx context.Context, credType CredentialType, value string) (*Account, error)
}
