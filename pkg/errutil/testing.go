// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assoplat/assoplat/internal/apierr"
)

// AssertKind asserts that err carries the given client-facing kind.
func AssertKind(t *testing.T, err error, kind apierr.Kind) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := apierr.Lookup(err)
	require.True(t, ok, "expected api error, got %T: %v", err, err)
	assert.Equal(t, kind, apiErr.Kind, "unexpected kind, message: %s", apiErr.Message)
}

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	octx := oopsErr.Context()
	assert.Contains(t, octx, key)
	assert.Equal(t, value, octx[key])
}
