package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"booksbackend/internal/config"
	"booksbackend/internal/platform/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite" // SQLite driver
)

var driverFlag string

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage database schema migrations",
	Long:         `Applies, rolls back and inspects the goose migrations for the configured store.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			if err := goose.UpContext(ctx, db, dir); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			cmd.Println("Migrations applied successfully")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			if err := goose.DownContext(ctx, db, dir); err != nil {
				return fmt.Errorf("failed to rollback migrations: %w", err)
			}
			cmd.Println("Migrations rolled back successfully")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, dir string) error {
			return goose.StatusContext(ctx, db, dir)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, _ string) error {
			v, err := goose.GetDBVersionContext(ctx, db)
			if err != nil {
				return err
			}
			cmd.Printf("Schema version: %d\n", v)
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new SQL migration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := createDir(cfg)
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		cmd.Printf("Migration created: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "store driver to migrate: postgres or sqlite (default $STORE_DRIVER)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd, versionCmd, createCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if driverFlag != "" {
		cfg.StoreDriver = driverFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.StoreDriver == config.DriverMemory {
		return nil, fmt.Errorf("store driver %q has no schema to migrate", cfg.StoreDriver)
	}
	return cfg, nil
}

// withDB opens the configured database, points goose at the matching
// migrations and runs fn.
func withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB, dir string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dialect := gooseDialect(cfg.StoreDriver)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	dir := useMigrations(cfg)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseDSN, cfg.DBTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to database (%s): %w", postgres.RedactDSN(cfg.DatabaseDSN), err)
		}
		defer pool.Close()

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()
		return fn(ctx, db, dir)

	default:
		db, err := sql.Open("sqlite", "file:"+cfg.SQLitePath+"?_pragma=foreign_keys(1)")
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		defer db.Close()
		return fn(ctx, db, dir)
	}
}
