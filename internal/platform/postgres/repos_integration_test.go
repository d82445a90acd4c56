package postgres_test

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"booksbackend/db/migrations"
	"booksbackend/internal/book"
	"booksbackend/internal/category"
	"booksbackend/internal/platform/postgres"
	"booksbackend/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestPool connects to TEST_DB_DSN, migrates it and empties both tables.
// The test is skipped when no database is configured or reachable.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := postgres.Open(ctx, dsn, 2*time.Second)
	if err != nil {
		t.Skipf("database unreachable: %v", err)
	}
	t.Cleanup(pool.Close)

	fsys, err := fs.Sub(migrations.FS, migrations.PostgresDir)
	require.NoError(t, err)
	db := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = db.Close() })
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	require.NoError(t, err)
	_, err = provider.Up(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE books, categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestPostgres_CategoryScenario(t *testing.T) {
	pool := openTestPool(t)
	testutil.RunCategoryScenario(t, category.NewPostgresRepo(pool, 3*time.Second))
}

func TestPostgres_CategoryEdgeCases(t *testing.T) {
	pool := openTestPool(t)
	testutil.RunCategoryEdgeCases(t, category.NewPostgresRepo(pool, 3*time.Second))
}

func TestPostgres_BookScenario(t *testing.T) {
	pool := openTestPool(t)
	testutil.RunBookScenario(t,
		category.NewPostgresRepo(pool, 3*time.Second),
		book.NewPostgresRepo(pool, 3*time.Second),
	)
}

func TestPostgres_ExplicitIDKeepsIdentityAhead(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)
	categories := category.NewPostgresRepo(pool, 3*time.Second)
	books := book.NewPostgresRepo(pool, 3*time.Second)

	explicit, err := categories.Save(ctx, &category.Category{ID: 50, Name: "Restored"})
	require.NoError(t, err)
	require.NotNil(t, explicit)

	next, err := categories.Save(ctx, &category.Category{Name: "Fresh"})
	require.NoError(t, err)
	require.NotNil(t, next, "insert without id must not collide with an explicit id")
	assert.Greater(t, next.ID, int64(50))

	// Rewriting a lower id must not pull the sequence back.
	_, err = categories.Save(ctx, &category.Category{ID: 3, Name: "Low"})
	require.NoError(t, err)
	after, err := categories.Save(ctx, &category.Category{Name: "After"})
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Greater(t, after.ID, next.ID)

	b, err := books.Save(ctx, &book.Book{ID: 70, Name: "Dune", CategoryID: next.ID})
	require.NoError(t, err)
	require.NotNil(t, b)
	fresh, err := books.Save(ctx, &book.Book{Name: "Emma", CategoryID: next.ID})
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Greater(t, fresh.ID, int64(70))
}
