// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assoplat/assoplat/internal/config"
	"github.com/assoplat/assoplat/internal/observability"
	"github.com/assoplat/assoplat/internal/session"
)

type fakeObservability struct {
	addr       string
	ready      observability.ReadinessChecker
	registrars []observability.MetricsRegistrar
	startErr   error
	started    bool
	stopped    bool
}

func (f *fakeObservability) Start() (<-chan error, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = true
	return make(chan error), nil
}

func (f *fakeObservability) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeObservability) Addr() string { return f.addr }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://mock/assoplat"
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = ""
	return &cfg
}

func mockDeps(t *testing.T, pool pgxmock.PgxPoolIface) (*ServeDeps, <-chan string) {
	t.Helper()
	ready := make(chan string, 1)
	return &ServeDeps{
		PoolFactory: func(context.Context, string) (Pool, error) { return pool, nil },
		LogWriter:   io.Discard,
		OnReady:     func(addr string) { ready <- addr },
	}, ready
}

func waitReady(t *testing.T, ready <-chan string, done <-chan error) string {
	t.Helper()
	select {
	case addr := <-ready:
		return addr
	case err := <-done:
		t.Fatalf("server exited before becoming ready: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for server to become ready")
	}
	return ""
}

func TestServe_HandlesRequestAndShutsDown(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)

	// a failed login still persists the new session
	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO sessions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()
	pool.ExpectPing()
	pool.ExpectClose()

	obs := &fakeObservability{addr: "127.0.0.1:9100"}
	deps, ready := mockDeps(t, pool)
	deps.ObservabilityServerFactory = func(_, _ string, checker observability.ReadinessChecker, registrars ...observability.MetricsRegistrar) ObservabilityServer {
		obs.ready = checker
		obs.registrars = registrars
		return obs
	}

	cfg := testConfig()
	cfg.MetricsAddr = "127.0.0.1:9100"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewServeCmd()
	cmd.SetOut(io.Discard)

	done := make(chan error, 1)
	go func() { done <- runServeWithDeps(ctx, cfg, cmd, deps) }()
	addr := waitReady(t, ready, done)

	resp, err := http.Post("http://"+addr+"/api/auth/login", "application/json", strings.NewReader(`{}`)) //nolint:noctx // test
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, "session", resp.Cookies()[0].Name)

	require.True(t, obs.started)
	require.NotNil(t, obs.ready)
	assert.NoError(t, obs.ready(context.Background()))

	reg := prometheus.NewRegistry()
	for _, register := range obs.registrars {
		register(reg)
	}
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for shutdown")
	}

	assert.True(t, obs.stopped)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestServe_StartsSweeperWhenConfigured(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	pool.ExpectExec("DELETE FROM sessions").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	pool.ExpectClose()

	deps, ready := mockDeps(t, pool)
	cfg := testConfig()
	cfg.Session.SweepInterval = time.Hour
	before := testutil.ToFloat64(session.SessionsSwept)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewServeCmd()
	cmd.SetOut(io.Discard)

	done := make(chan error, 1)
	go func() { done <- runServeWithDeps(ctx, cfg, cmd, deps) }()
	waitReady(t, ready, done)

	// the sweeper runs once immediately on start
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(session.SessionsSwept)-before >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestServe_RequiresDatabaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = ""

	err := runServeWithDeps(context.Background(), cfg, NewServeCmd(), &ServeDeps{LogWriter: io.Discard})
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
}

func TestServe_ConnectFailure(t *testing.T) {
	deps := &ServeDeps{
		PoolFactory: func(context.Context, string) (Pool, error) { return nil, errors.New("connection refused") },
		LogWriter:   io.Discard,
	}

	err := runServeWithDeps(context.Background(), testConfig(), NewServeCmd(), deps)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "DB_CONNECT_FAILED", oopsErr.Code())
}

func TestServe_ObservabilityStartFailure(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	pool.ExpectClose()

	deps, _ := mockDeps(t, pool)
	deps.ObservabilityServerFactory = func(string, string, observability.ReadinessChecker, ...observability.MetricsRegistrar) ObservabilityServer {
		return &fakeObservability{startErr: errors.New("address in use")}
	}
	cfg := testConfig()
	cfg.MetricsAddr = "127.0.0.1:9100"

	err = runServeWithDeps(context.Background(), cfg, NewServeCmd(), deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestMonitorServerErrors_CancelsOnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	errCh <- errors.New("listener closed")

	monitorServerErrors(ctx, cancel, errCh, "test")

	assert.Error(t, ctx.Err())
}

func TestMonitorServerErrors_IgnoresClosedChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error)
	close(errCh)

	monitorServerErrors(ctx, cancel, errCh, "test")

	assert.NoError(t, ctx.Err())
}
