// Package testutil provides database fixtures for the postgres adapter
// tests. Tests that need a real database are skipped unless
// TEST_DATABASE_URL is set.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres"
)

// OpenMigratedPool connects to the database named by TEST_DATABASE_URL,
// applies all migrations and truncates the tables so each test starts
// from a clean slate. The pool is closed when the test ends.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres test")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, path := range migrationFiles(t) {
		sql, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(t, err, "apply migration %s", filepath.Base(path))
	}

	_, err = pool.Exec(ctx, `TRUNCATE bookings, users, hotels RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func migrationFiles(t *testing.T) []string {
	t.Helper()

	_, self, _, ok := runtime.Caller(0)
	require.True(t, ok)

	dir := filepath.Join(filepath.Dir(self), "..", "..", "..", "..", "migrations")
	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no migrations found in %s", dir)

	sort.Strings(paths)
	return paths
}
