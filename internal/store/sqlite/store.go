// Package sqlite provides category and book repositories backed by an embedded
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"booksbackend/db/migrations"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // goqu dialect
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	driverName  = "sqlite"
	dialectName = "sqlite3"

	tableCategories = "categories"
	tableBooks      = "books"
)

// Store is a SQLite database holding categories and books.
type Store struct {
	db      *sqlx.DB
	path    string
	timeout time.Duration
	dialect goqu.DialectWrapper
}

// Open opens (creating if needed) the database file at path and applies all
// pending migrations. Every query is bounded by timeout.
func Open(ctx context.Context, path string, timeout time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// Pragmas in the DSN are applied to every pooled connection.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:      db,
		path:    path,
		timeout: timeout,
		dialect: goqu.Dialect(dialectName),
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations.FS, migrations.SQLiteDir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CategoryRepo returns the category repository backed by this store.
func (s *Store) CategoryRepo() *CategoryRepo {
	return &CategoryRepo{store: s}
}

// BookRepo returns the book repository backed by this store.
func (s *Store) BookRepo() *BookRepo {
	return &BookRepo{store: s}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// upsert updates the row with the record's id, or inserts it when no such row
// exists. It returns the id of the written row.
func (s *Store) upsert(ctx context.Context, tx *sqlx.Tx, table string, id int64, rec goqu.Record) (int64, error) {
	if id != 0 {
		query, args, err := s.dialect.Update(table).Prepared(true).
			Set(rec).
			Where(goqu.C("id").Eq(id)).
			ToSQL()
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err != nil || n > 0 {
			return id, err
		}
		rec["id"] = id
	}

	query, args, err := s.dialect.Insert(table).Prepared(true).Rows(rec).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}
	return res.LastInsertId()
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	query, args, err := s.dialect.Delete(table).Prepared(true).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// isConstraintViolation reports whether err is a SQLite constraint failure,
// such as a NOT NULL or foreign key violation.
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
