// Package postgres holds the pgx pool bootstrap shared by the binaries and the
// error classification used by the Postgres repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Integrity constraint violation class (SQLSTATE 23xxx).
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Open creates a pool and verifies it answers within pingTimeout.
func Open(ctx context.Context, dsn string, pingTimeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// IsConstraintViolation reports whether err is a rejected write caused by an
// integrity constraint rather than a failure of the database itself.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeNotNullViolation, codeForeignKeyViolation, codeUniqueViolation, codeCheckViolation:
		return true
	}
	return false
}

// advanceIdentitySQL moves the id sequence of a table forward to $2 when an
// explicit id was written past it. It never moves the sequence backwards.
const advanceIdentitySQL = `
	SELECT setval(s.seq, $2)
	FROM (SELECT pg_get_serial_sequence($1, 'id')::regclass AS seq) s
	WHERE $2 > COALESCE(pg_sequence_last_value(s.seq), 0)`

// AdvanceIdentity keeps the identity column of table ahead of id, so that a
// later insert without an id does not collide with a row written with one.
func AdvanceIdentity(ctx context.Context, tx pgx.Tx, table string, id int64) error {
	if _, err := tx.Exec(ctx, advanceIdentitySQL, table, id); err != nil {
		return fmt.Errorf("advance %s identity: %w", table, err)
	}
	return nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
