// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

//go:build integration

// Package storetest starts a migrated PostgreSQL container for integration
// tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/assoplat/assoplat/internal/store"
)

// Database is a running, fully migrated PostgreSQL container.
type Database struct {
	URL       string
	Pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

// Start runs a PostgreSQL container and applies all migrations.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("assoplat_test"),
		postgres.WithUsername("assoplat"),
		postgres.WithPassword("assoplat"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, oops.Code("TEST_CONTAINER_FAILED").Wrap(err)
	}

	db := &Database{container: container}
	db.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		db.Close(ctx)
		return nil, oops.Code("TEST_CONTAINER_FAILED").With("operation", "connection string").Wrap(err)
	}

	migrator, err := store.NewMigrator(db.URL)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	upErr := migrator.Up()
	_ = migrator.Close() //nolint:errcheck // migration result takes precedence
	if upErr != nil {
		db.Close(ctx)
		return nil, upErr
	}

	db.Pool, err = store.Connect(ctx, db.URL, store.DefaultConnectOptions())
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

// Truncate empties every application table.
func (db *Database) Truncate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `TRUNCATE sessions, user_infos, credentials, accounts`)
	return oops.Wrap(err)
}

// Close releases the pool and terminates the container.
func (db *Database) Close(ctx context.Context) {
	if db.Pool != nil {
		db.Pool.Close()
	}
	_ = db.container.Terminate(ctx) //nolint:errcheck // best effort cleanup
}
