package category

// PayloadKey names the category sequence in a response envelope.
const PayloadKey = "categories"

// Category represents a book category.
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Request is the body accepted by create and update.
type Request struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

// ToCategory converts the request into a category without an id.
func (r Request) ToCategory() Category {
	return Category{Name: r.Name, Description: r.Description}
}
