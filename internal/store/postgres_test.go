// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assoplat/assoplat/pkg/errutil"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReady_RetriesUntilReady(t *testing.T) {
	db := &flakyPinger{failures: 2}
	err := waitReady(context.Background(), db, ConnectOptions{MaxRetries: 5, BaseDelay: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 3, db.calls)
}

func TestWaitReady_GivesUp(t *testing.T) {
	db := &flakyPinger{failures: 100}
	err := waitReady(context.Background(), db, ConnectOptions{MaxRetries: 2, BaseDelay: time.Millisecond})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	assert.Equal(t, 3, db.calls, "one attempt plus two retries")
}

func TestWaitReady_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db := &flakyPinger{failures: 100}
	err := waitReady(ctx, db, ConnectOptions{MaxRetries: 10, BaseDelay: time.Hour})
	require.Error(t, err)
	assert.LessOrEqual(t, db.calls, 1)
}
