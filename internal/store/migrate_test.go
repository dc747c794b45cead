// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package store

import (
	"errors"
	"regexp"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assoplat/assoplat/pkg/errutil"
)

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("invalid://url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/assoplat", migrateURL("postgres://u:p@db:5432/assoplat"))
	assert.Equal(t, "pgx5://db/assoplat", migrateURL("postgresql://db/assoplat"))
	assert.Equal(t, "pgx5://db/assoplat", migrateURL("pgx5://db/assoplat"))
}

type mockMigrate struct {
	upErr          error
	downErr        error
	versionVal     uint
	versionErr     error
	dirty          bool
	forceErr       error
	closeSourceErr error
	closeDbErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Force(_ int) error            { return m.forceErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDbErr }

func TestMigrator_Up(t *testing.T) {
	require.NoError(t, (&Migrator{engine: &mockMigrate{}}).Up())
	require.NoError(t, (&Migrator{engine: &mockMigrate{upErr: migrate.ErrNoChange}}).Up(),
		"ErrNoChange should be treated as success")

	err := (&Migrator{engine: &mockMigrate{upErr: errors.New("database locked")}}).Up()
	errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
}

func TestMigrator_Down(t *testing.T) {
	require.NoError(t, (&Migrator{engine: &mockMigrate{}}).Down())
	require.NoError(t, (&Migrator{engine: &mockMigrate{downErr: migrate.ErrNoChange}}).Down())

	err := (&Migrator{engine: &mockMigrate{downErr: errors.New("constraint violation")}}).Down()
	errutil.AssertErrorCode(t, err, "MIGRATION_DOWN_FAILED")
}

func TestMigrator_Version(t *testing.T) {
	v, dirty, err := (&Migrator{engine: &mockMigrate{versionVal: 2, dirty: true}}).Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.True(t, dirty)

	v, dirty, err = (&Migrator{engine: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)

	_, _, err = (&Migrator{engine: &mockMigrate{versionErr: errors.New("boom")}}).Version()
	errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
}

func TestMigrator_Force(t *testing.T) {
	require.NoError(t, (&Migrator{engine: &mockMigrate{}}).Force(1))

	err := (&Migrator{engine: &mockMigrate{}}).Force(-1)
	errutil.AssertErrorCode(t, err, "INVALID_VERSION")

	err = (&Migrator{engine: &mockMigrate{forceErr: errors.New("boom")}}).Force(1)
	errutil.AssertErrorCode(t, err, "MIGRATION_FORCE_FAILED")
}

func TestMigrator_Close(t *testing.T) {
	require.NoError(t, (&Migrator{engine: &mockMigrate{}}).Close())

	err := (&Migrator{engine: &mockMigrate{
		closeSourceErr: errors.New("source closed"),
		closeDbErr:     errors.New("db closed"),
	}}).Close()
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
	assert.Contains(t, err.Error(), "source closed")
	assert.Contains(t, err.Error(), "db closed")
}

func TestMigrator_PendingMigrations(t *testing.T) {
	pending, err := (&Migrator{engine: &mockMigrate{versionErr: migrate.ErrNilVersion}}).PendingMigrations()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, pending)

	pending, err = (&Migrator{engine: &mockMigrate{versionVal: 1}}).PendingMigrations()
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, pending)

	pending, err = (&Migrator{engine: &mockMigrate{versionVal: 2}}).PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = (&Migrator{engine: &mockMigrate{versionErr: errors.New("boom")}}).PendingMigrations()
	require.Error(t, err)
}

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make(map[string]bool)
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		names[entry.Name()] = true
		assert.True(t, pattern.MatchString(entry.Name()),
			"file %s should match pattern NNNNNN_name.(up|down).sql", entry.Name())
	}

	for _, expected := range []string{
		"000001_accounts.up.sql",
		"000001_accounts.down.sql",
		"000002_sessions.up.sql",
		"000002_sessions.down.sql",
	} {
		assert.True(t, names[expected], "should contain %s", expected)
	}
}

func TestUpVersion(t *testing.T) {
	tests := []struct {
		name string
		want uint
		ok   bool
	}{
		{"000001_accounts.up.sql", 1, true},
		{"000002_sessions.up.sql", 2, true},
		{"000002_sessions.down.sql", 0, false},
		{"accounts.up.sql", 0, false},
		{"00x1_accounts.up.sql", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := upVersion(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
