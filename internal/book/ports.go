package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// FindByID returns (nil, nil) when the book does not exist. Save inserts when the
// id is zero and upserts on id otherwise; a (nil, nil) result means the store
// rejected the write, e.g. because the category does not exist.
type Repository interface {
	FindAll(ctx context.Context) ([]Book, error)
	FindByID(ctx context.Context, id int64) (*Book, error)
	Save(ctx context.Context, b *Book) (*Book, error)
	DeleteByID(ctx context.Context, id int64) error
}
