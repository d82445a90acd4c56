package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booksbackend/internal/category"
	"booksbackend/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `
	b.id, b.name, b.description, b.category_id,
	c.id, c.name, c.description`

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

// scanBook reads a book row whose category columns come from a LEFT JOIN.
func scanBook(row pgx.Row) (Book, error) {
	var (
		b         Book
		catID     *int64
		catName   *string
		catDetail *string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CategoryID, &catID, &catName, &catDetail); err != nil {
		return Book{}, err
	}
	if catID != nil {
		b.Category = &category.Category{ID: *catID}
		if catName != nil {
			b.Category.Name = *catName
		}
		if catDetail != nil {
			b.Category.Description = *catDetail
		}
	}
	return b, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Book, error) {
	query := `SELECT` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON c.id = b.category_id
		ORDER BY b.id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (*Book, error) {
	query := `SELECT` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *PostgresRepo) Save(ctx context.Context, b *Book) (*Book, error) {
	const insertSQL = `
		INSERT INTO books (name, description, category_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, category_id`

	const upsertSQL = `
		INSERT INTO books (id, name, description, category_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category_id = EXCLUDED.category_id,
			updated_at = now()
		RETURNING id, name, description, category_id`

	withCategory := func(write string) string {
		return `WITH b AS (` + write + `)
		SELECT` + bookColumns + `
		FROM b
		LEFT JOIN categories c ON c.id = b.category_id`
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		saved Book
		err   error
	)
	if b.ID == 0 {
		saved, err = scanBook(r.db.QueryRow(timeoutCtx, withCategory(insertSQL), b.Name, b.Description, b.CategoryID))
	} else {
		err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
			row := tx.QueryRow(timeoutCtx, withCategory(upsertSQL), b.ID, b.Name, b.Description, b.CategoryID)
			var err error
			if saved, err = scanBook(row); err != nil {
				return err
			}
			return postgres.AdvanceIdentity(timeoutCtx, tx, "books", saved.ID)
		})
	}
	if err != nil {
		if postgres.IsConstraintViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("save book: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepo) DeleteByID(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}
