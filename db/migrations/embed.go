// Package migrations embeds the goose SQL migrations for every supported store.
package migrations

import "embed"

// FS contains one directory of migrations per dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directories inside FS, keyed by goose dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

// Dir returns the migrations directory for a goose dialect.
func Dir(dialect string) (string, bool) {
	switch dialect {
	case "postgres":
		return PostgresDir, true
	case "sqlite3", "sqlite":
		return SQLiteDir, true
	}
	return "", false
}
