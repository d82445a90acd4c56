package main

import (
	"path/filepath"

	"booksbackend/db/migrations"
	"booksbackend/internal/config"

	"github.com/pressly/goose/v3"
)

func gooseDialect(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// useMigrations selects where goose reads migrations from and returns the
// directory to pass to it. MIGRATIONS_DIR switches from the embedded files to
// a directory on disk.
func useMigrations(cfg *config.Config) string {
	if cfg.MigrationsDir != "" {
		goose.SetBaseFS(nil)
		return cfg.MigrationsDir
	}
	goose.SetBaseFS(migrations.FS)
	dir, _ := migrations.Dir(gooseDialect(cfg.StoreDriver))
	return dir
}

// createDir is the on-disk directory new migration files are written to.
func createDir(cfg *config.Config) string {
	if cfg.MigrationsDir != "" {
		return cfg.MigrationsDir
	}
	dir, _ := migrations.Dir(gooseDialect(cfg.StoreDriver))
	return filepath.Join("db", "migrations", dir)
}
