// Package memory provides in-process category and book repositories.
//
// The two repositories share one Store so that books can resolve and validate
// their category the way a foreign key would.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"booksbackend/internal/book"
	"booksbackend/internal/category"
)

// ErrCategoryInUse is returned when deleting a category still referenced by a book.
var ErrCategoryInUse = errors.New("category is referenced by books")

// Ensure the repositories implement the interfaces.
var (
	_ category.Repository = (*CategoryRepo)(nil)
	_ book.Repository     = (*BookRepo)(nil)
)

// Store holds categories and books in memory.
type Store struct {
	mu             sync.RWMutex
	categories     map[int64]category.Category
	books          map[int64]book.Book
	nextCategoryID int64
	nextBookID     int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]category.Category),
		books:      make(map[int64]book.Book),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// CategoryRepo returns the category repository backed by this store.
func (s *Store) CategoryRepo() *CategoryRepo {
	return &CategoryRepo{store: s}
}

// BookRepo returns the book repository backed by this store.
func (s *Store) BookRepo() *BookRepo {
	return &BookRepo{store: s}
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CategoryRepo is an in-memory category.Repository.
type CategoryRepo struct {
	store *Store
}

func (r *CategoryRepo) FindAll(ctx context.Context) ([]category.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]category.Category, 0, len(s.categories))
	for _, id := range sortedIDs(s.categories) {
		out = append(out, s.categories[id])
	}
	return out, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Save(ctx context.Context, c *category.Category) (*category.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *c
	if saved.ID == 0 {
		s.nextCategoryID++
		saved.ID = s.nextCategoryID
	} else if saved.ID > s.nextCategoryID {
		s.nextCategoryID = saved.ID
	}
	s.categories[saved.ID] = saved
	return &saved, nil
}

func (r *CategoryRepo) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		if b.CategoryID == id {
			return fmt.Errorf("delete category %d: %w", id, ErrCategoryInUse)
		}
	}
	delete(s.categories, id)
	return nil
}

// BookRepo is an in-memory book.Repository.
type BookRepo struct {
	store *Store
}

// resolve attaches the referenced category. Callers hold the lock.
func (s *Store) resolve(b book.Book) book.Book {
	if c, ok := s.categories[b.CategoryID]; ok {
		b.Category = &c
	} else {
		b.Category = nil
	}
	return b
}

func (r *BookRepo) FindAll(ctx context.Context) ([]book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]book.Book, 0, len(s.books))
	for _, id := range sortedIDs(s.books) {
		out = append(out, s.resolve(s.books[id]))
	}
	return out, nil
}

func (r *BookRepo) FindByID(ctx context.Context, id int64) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	b = s.resolve(b)
	return &b, nil
}

// Save rejects books whose category does not exist.
func (r *BookRepo) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[b.CategoryID]; !ok {
		return nil, nil
	}

	saved := *b
	saved.Category = nil
	if saved.ID == 0 {
		s.nextBookID++
		saved.ID = s.nextBookID
	} else if saved.ID > s.nextBookID {
		s.nextBookID = saved.ID
	}
	s.books[saved.ID] = saved
	saved = s.resolve(saved)
	return &saved, nil
}

func (r *BookRepo) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.books, id)
	return nil
}
