package category

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=category

// Repository defines the contract for category storage.
//
// FindByID returns (nil, nil) when the category does not exist. Save inserts when
// the id is zero and upserts on id otherwise; a (nil, nil) result means the store
// rejected the write. DeleteByID does not report absent ids.
type Repository interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id int64) (*Category, error)
	Save(ctx context.Context, c *Category) (*Category, error)
	DeleteByID(ctx context.Context, id int64) error
}
