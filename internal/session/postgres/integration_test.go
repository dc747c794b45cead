// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assoplat/assoplat/internal/session"
	"github.com/assoplat/assoplat/internal/session/postgres"
	"github.com/assoplat/assoplat/internal/store/storetest"
)

var testDB *storetest.Database

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := storetest.Start(ctx)
	if err != nil {
		panic("failed to start database: " + err.Error())
	}
	testDB = db

	code := m.Run()
	db.Close(ctx)
	os.Exit(code)
}

func TestIntegration_SessionRoundTrip(t *testing.T) {
	require.NoError(t, testDB.Truncate(context.Background()))
	ctx := context.Background()

	repo := postgres.NewSessionRepository(testDB.Pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	store, err := session.NewStore(repo, session.DefaultConfig(), session.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	sess, err := store.Resolve(ctx, "")
	require.NoError(t, err)
	sess.Set("user_id", "6a1f9e0c-5b2d-4c3e-8f7a-1b2c3d4e5f60")

	directive, err := store.Persist(ctx, sess)
	require.NoError(t, err)

	again, err := store.Resolve(ctx, directive.Value)
	require.NoError(t, err)
	assert.Equal(t, sess.Data(), again.Data())

	rec, err := repo.Load(ctx, directive.Value)
	require.NoError(t, err)
	assert.True(t, rec.Expiry.Equal(directive.Expires))
}

func TestIntegration_SessionUpsertOverwrites(t *testing.T) {
	require.NoError(t, testDB.Truncate(context.Background()))
	ctx := context.Background()
	repo := postgres.NewSessionRepository(testDB.Pool)

	first := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Upsert(ctx, session.Record{Token: "tok", Data: []byte("a"), Expiry: first}))
	require.NoError(t, repo.Upsert(ctx, session.Record{Token: "tok", Data: []byte("b"), Expiry: first.Add(time.Hour)}))

	rec, err := repo.Load(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), rec.Data)
	assert.True(t, rec.Expiry.Equal(first.Add(time.Hour)))
}

func TestIntegration_DeleteExpired(t *testing.T) {
	require.NoError(t, testDB.Truncate(context.Background()))
	ctx := context.Background()
	repo := postgres.NewSessionRepository(testDB.Pool)
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, session.Record{Token: "old", Data: []byte{}, Expiry: now.Add(-time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, session.Record{Token: "new", Data: []byte{}, Expiry: now.Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Load(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = repo.Load(ctx, "new")
	assert.NoError(t, err)
}
