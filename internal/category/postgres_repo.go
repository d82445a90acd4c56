package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booksbackend/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Category, error) {
	const query = `SELECT id, name, description FROM categories ORDER BY id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (*Category, error) {
	const query = `SELECT id, name, description FROM categories WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var c Category
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresRepo) Save(ctx context.Context, c *Category) (*Category, error) {
	const insertSQL = `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description`

	const upsertSQL = `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING id, name, description`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var saved Category
	var err error
	if c.ID == 0 {
		err = r.db.QueryRow(timeoutCtx, insertSQL, c.Name, c.Description).
			Scan(&saved.ID, &saved.Name, &saved.Description)
	} else {
		err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
			if err := tx.QueryRow(timeoutCtx, upsertSQL, c.ID, c.Name, c.Description).
				Scan(&saved.ID, &saved.Name, &saved.Description); err != nil {
				return err
			}
			return postgres.AdvanceIdentity(timeoutCtx, tx, "categories", saved.ID)
		})
	}
	if err != nil {
		if postgres.IsConstraintViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("save category: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepo) DeleteByID(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
