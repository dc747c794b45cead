// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"context"
	"io"

	"github.com/assoplat/assoplat/internal/observability"
	"github.com/assoplat/assoplat/internal/store"
)

// Pool is the database handle the commands need.
// *pgxpool.Pool satisfies it, as does pgxmock.PgxPoolIface.
type Pool interface {
	store.Pool
	Ping(ctx context.Context) error
	Close()
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator interface wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// PoolFactory opens the database pool.
	// Default: store.Connect with store.DefaultConnectOptions
	PoolFactory func(ctx context.Context, url string) (Pool, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr, version string, ready observability.ReadinessChecker, registrars ...observability.MetricsRegistrar) ObservabilityServer

	// LogWriter receives log output. Default: os.Stderr
	LogWriter io.Writer

	// OnReady is called with the API address once every server is listening.
	OnReady func(apiAddr string)
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.PoolFactory == nil {
		out.PoolFactory = connectPool
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr, version string, ready observability.ReadinessChecker, registrars ...observability.MetricsRegistrar) ObservabilityServer {
			return observability.NewServer(addr, version, ready, registrars...)
		}
	}
	return &out
}

func connectPool(ctx context.Context, url string) (Pool, error) {
	pool, err := store.Connect(ctx, url, store.DefaultConnectOptions())
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// newMigrator is swapped out by tests.
var newMigrator = func(url string) (Migrator, error) {
	return store.NewMigrator(url)
}

// newPool is the pool factory used by one-shot commands; swapped out by tests.
var newPool = connectPool
