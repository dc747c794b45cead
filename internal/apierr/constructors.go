// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package apierr

import (
	"strings"

	"github.com/samber/oops"
)

// NewAtLeastOneOfArguments reports that none of the alternative arguments
// were supplied.
func NewAtLeastOneOfArguments(args ...string) error {
	return New(AtLeastOneOfArguments, "At least one of %s should be provided", strings.Join(args, ", "))
}

// NewCredentialNotFound reports a credential that resolves to no account.
func NewCredentialNotFound(credType, credValue string) error {
	return New(CredentialNotFound, "Credential (%s) %s is not valid", credType, credValue)
}

// NewPasswordIncorrect reports a digest mismatch.
func NewPasswordIncorrect() error {
	return New(PasswordIncorrect, "Password is incorrect")
}

// NewDuplicateCredential reports a (type, value) pair that is already bound.
func NewDuplicateCredential(credType, credValue string, cause error) error {
	return oops.Code(DuplicateCredential.String()).
		With("api_code", int(DuplicateCredential)).
		With("cred_type", credType).
		Wrap(&Error{
			Kind:    DuplicateCredential,
			Message: "Credential (" + credType + ") " + credValue + " already exists",
			cause:   cause,
		})
}

// NewUserInfoNotFound reports missing user information.
func NewUserInfoNotFound(message string) error {
	return New(UserInfoNotFound, "%s", message)
}

// NewAuthenticationRequired reports an operation that needs a logged-in user.
func NewAuthenticationRequired() error {
	return New(AuthenticationRequired, "Authentication required")
}

// NewInvalidFormat reports a malformed request argument.
func NewInvalidFormat(field, message string) error {
	return oops.Code(InvalidFormat.String()).
		With("api_code", int(InvalidFormat)).
		With("field", field).
		Wrap(&Error{Kind: InvalidFormat, Field: field, Message: field + ": " + message})
}

// NewStorageFailure wraps a backing store failure.
func NewStorageFailure(operation string, cause error) error {
	return oops.Code(StorageFailure.String()).
		With("api_code", int(StorageFailure)).
		With("operation", operation).
		Wrap(&Error{Kind: StorageFailure, Message: "storage failure", cause: cause})
}
