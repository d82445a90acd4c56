package book

import "booksbackend/internal/category"

// PayloadKey names the book sequence in a response envelope.
const PayloadKey = "books"

// Book represents a book entity. CategoryID is the owning reference; Category is
// the resolved category when the store could join it.
type Book struct {
	ID          int64              `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Description string             `json:"description" db:"description"`
	CategoryID  int64              `json:"category_id" db:"category_id"`
	Category    *category.Category `json:"category,omitempty" db:"-"`
}

// Request is the body accepted by create and update.
type Request struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	CategoryID  int64  `json:"category_id" validate:"required,gte=1"`
}

// ToBook converts the request into a book without an id.
func (r Request) ToBook() Book {
	return Book{Name: r.Name, Description: r.Description, CategoryID: r.CategoryID}
}
