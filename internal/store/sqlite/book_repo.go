package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"booksbackend/internal/book"
	"booksbackend/internal/category"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

var _ book.Repository = (*BookRepo)(nil)

// BookRepo is a SQLite book.Repository. Reads resolve the referenced category.
type BookRepo struct {
	store *Store
}

type bookRow struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	CategoryID     int64          `db:"category_id"`
	CatID          sql.NullInt64  `db:"cat_id"`
	CatName        sql.NullString `db:"cat_name"`
	CatDescription sql.NullString `db:"cat_description"`
}

func (row bookRow) toBook() book.Book {
	b := book.Book{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CategoryID:  row.CategoryID,
	}
	if row.CatID.Valid {
		b.Category = &category.Category{
			ID:          row.CatID.Int64,
			Name:        row.CatName.String,
			Description: row.CatDescription.String,
		}
	}
	return b
}

func (r *BookRepo) selectBooks() *goqu.SelectDataset {
	return r.store.dialect.From(goqu.T(tableBooks).As("b")).Prepared(true).
		Select(
			goqu.I("b.id"),
			goqu.I("b.name"),
			goqu.I("b.description"),
			goqu.I("b.category_id"),
			goqu.I("c.id").As("cat_id"),
			goqu.I("c.name").As("cat_name"),
			goqu.I("c.description").As("cat_description"),
		).
		LeftJoin(goqu.T(tableCategories).As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.category_id")))).
		Order(goqu.I("b.id").Asc())
}

func (r *BookRepo) FindAll(ctx context.Context) ([]book.Book, error) {
	query, args, err := r.selectBooks().ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}

	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()
	var rows []bookRow
	if err := r.store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	out := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toBook())
	}
	return out, nil
}

func (r *BookRepo) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()
	b, err := r.get(ctx, r.store.db, id)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (r *BookRepo) get(ctx context.Context, q sqlx.QueryerContext, id int64) (*book.Book, error) {
	query, args, err := r.selectBooks().Where(goqu.I("b.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, err
	}
	var row bookRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	b := row.toBook()
	return &b, nil
}

// Save returns nil, nil when the referenced category does not exist.
func (r *BookRepo) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b == nil {
		return nil, nil
	}

	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	var saved *book.Book
	err := r.store.inTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.store.upsert(ctx, tx, tableBooks, b.ID, goqu.Record{
			"name":        b.Name,
			"description": b.Description,
			"category_id": b.CategoryID,
			"updated_at":  goqu.L("CURRENT_TIMESTAMP"),
		})
		if err != nil {
			return err
		}
		saved, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("save book: %w", err)
	}
	return saved, nil
}

func (r *BookRepo) DeleteByID(ctx context.Context, id int64) error {
	if err := r.store.deleteByID(ctx, tableBooks, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}
