// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package apierr defines the error taxonomy surfaced to API clients.
//
// Every error carries a stable numeric code and an HTTP status. Clients
// branch on the numeric code, never on the message text. Errors are built
// with samber/oops so that logging keeps the string code and context, while
// the typed *Error inside the chain carries the client-facing kind.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/oops"
)

// Kind identifies a client-visible error class.
type Kind int

// Stable numeric codes. Never renumber; append only.
const (
	Unknown                Kind = 0
	AtLeastOneOfArguments  Kind = 1
	CredentialNotFound     Kind = 2
	PasswordIncorrect      Kind = 3
	DuplicateCredential    Kind = 4
	UserInfoNotFound       Kind = 5
	AuthenticationRequired Kind = 6
	InvalidFormat          Kind = 7
	StorageFailure         Kind = 8
)

type kindInfo struct {
	code   string
	status int
}

var kinds = map[Kind]kindInfo{
	Unknown:                {"INTERNAL_ERROR", http.StatusInternalServerError},
	AtLeastOneOfArguments:  {"AT_LEAST_ONE_OF_ARGUMENTS", http.StatusBadRequest},
	CredentialNotFound:     {"CREDENTIAL_NOT_FOUND", http.StatusBadRequest},
	PasswordIncorrect:      {"PASSWORD_INCORRECT", http.StatusBadRequest},
	DuplicateCredential:    {"DUPLICATE_CREDENTIAL", http.StatusBadRequest},
	UserInfoNotFound:       {"USER_INFO_NOT_FOUND", http.StatusBadRequest},
	AuthenticationRequired: {"AUTHENTICATION_REQUIRED", http.StatusUnauthorized},
	InvalidFormat:          {"INVALID_FORMAT", http.StatusBadRequest},
	StorageFailure:         {"STORAGE_FAILURE", http.StatusInternalServerError},
}

// String returns the oops error code for the kind.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return kinds[Unknown].code
}

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is the client-facing part of an error chain.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an error of the given kind.
func New(kind Kind, format string, args ...any) error {
	return oops.Code(kind.String()).
		With("api_code", int(kind)).
		Wrap(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Wrap builds an error of the given kind around a cause. The cause is kept
// for logging; only message is shown to clients.
func Wrap(kind Kind, err error, message string) error {
	return oops.Code(kind.String()).
		With("api_code", int(kind)).
		Wrap(&Error{Kind: kind, Message: message, cause: err})
}

// Lookup returns the outermost client-facing error in the chain.
func Lookup(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Unknown.
func KindOf(err error) Kind {
	if apiErr, ok := Lookup(err); ok {
		return apiErr.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
