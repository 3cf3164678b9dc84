// README: Shared Postgres fixture for store tests; skipped unless WAYBILL_TEST_DSN is set.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"waybill/internal/infra"
)

// Pool migrates the test database and truncates tables before returning a pool.
func Pool(t *testing.T, tables ...string) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("WAYBILL_TEST_DSN")
	if dsn == "" {
		t.Skip("WAYBILL_TEST_DSN not set; skipping DB-backed tests")
	}

	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	if err := infra.RunMigrations(dsn, filepath.Join(root, "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	for _, table := range tables {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return db
}

// RepoRoot walks up from the working directory to the directory holding go.mod.
func RepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
