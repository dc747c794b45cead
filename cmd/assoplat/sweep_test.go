// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usePool(t *testing.T, pool Pool, err error) {
	t.Helper()
	orig := newPool
	newPool = func(context.Context, string) (Pool, error) { return pool, err }
	t.Cleanup(func() { newPool = orig })
}

func TestSweep_DeletesExpiredSessions(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	pool.ExpectExec("DELETE FROM sessions").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	pool.ExpectClose()
	usePool(t, pool, nil)

	out, err := runRoot(t, "sweep", "--database-url", "postgres://x")
	require.NoError(t, err)

	assert.Contains(t, out, "Deleted 4 expired session(s)")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSweep_DeleteFailure(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	pool.ExpectExec("DELETE FROM sessions").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(errors.New("relation does not exist"))
	pool.ExpectClose()
	usePool(t, pool, nil)

	_, err = runRoot(t, "sweep", "--database-url", "postgres://x")
	require.Error(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSweep_ConnectFailure(t *testing.T) {
	usePool(t, nil, errors.New("connection refused"))

	_, err := runRoot(t, "sweep", "--database-url", "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
