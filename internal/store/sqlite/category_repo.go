package sqlite

import (
	"context"
	"fmt"

	"booksbackend/internal/category"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo is a SQLite category.Repository.
type CategoryRepo struct {
	store *Store
}

func (r *CategoryRepo) selectCategories() *goqu.SelectDataset {
	return r.store.dialect.From(tableCategories).Prepared(true).
		Select("id", "name", "description").
		Order(goqu.C("id").Asc())
}

func (r *CategoryRepo) FindAll(ctx context.Context) ([]category.Category, error) {
	query, args, err := r.selectCategories().ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()
	out := []category.Category{}
	if err := r.store.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()
	c, err := r.get(ctx, r.store.db, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *CategoryRepo) get(ctx context.Context, q sqlx.QueryerContext, id int64) (*category.Category, error) {
	query, args, err := r.selectCategories().Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return nil, err
	}
	var c category.Category
	if err := sqlx.GetContext(ctx, q, &c, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Save(ctx context.Context, c *category.Category) (*category.Category, error) {
	if c == nil {
		return nil, nil
	}

	ctx, cancel := r.store.withTimeout(ctx)
	defer cancel()

	var saved *category.Category
	err := r.store.inTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.store.upsert(ctx, tx, tableCategories, c.ID, goqu.Record{
			"name":        c.Name,
			"description": c.Description,
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
		return nil, fmt.Errorf("save category: %w", err)
	}
	return saved, nil
}

func (r *CategoryRepo) DeleteByID(ctx context.Context, id int64) error {
	if err := r.store.deleteByID(ctx, tableCategories, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
