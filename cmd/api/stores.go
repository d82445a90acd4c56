package main

import (
	"context"
	"fmt"

	"booksbackend/internal/book"
	"booksbackend/internal/category"
	"booksbackend/internal/config"
	"booksbackend/internal/platform/postgres"
	"booksbackend/internal/store/memory"
	"booksbackend/internal/store/sqlite"

	"github.com/sirupsen/logrus"
)

// stores bundles the repositories of one backend with its lifecycle hooks.
type stores struct {
	categories category.Repository
	books      book.Repository
	ping       func(context.Context) error
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseDSN, cfg.DBTimeout)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to database (%s): %w", postgres.RedactDSN(cfg.DatabaseDSN), err)
		}
		logger.Info("database connection OK")
		return &stores{
			categories: category.NewPostgresRepo(pool, cfg.DBTimeout),
			books:      book.NewPostgresRepo(pool, cfg.DBTimeout),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.DBTimeout)
		if err != nil {
			return nil, fmt.Errorf("cannot open sqlite database %s: %w", cfg.SQLitePath, err)
		}
		logger.WithField("path", db.Path()).Info("sqlite database ready")
		return &stores{
			categories: db.CategoryRepo(),
			books:      db.BookRepo(),
			ping:       db.Ping,
			close:      func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return newMemoryStores(), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func newMemoryStores() *stores {
	m := memory.NewStore()
	return &stores{
		categories: m.CategoryRepo(),
		books:      m.BookRepo(),
		ping:       m.Ping,
		close:      func() {},
	}
}
