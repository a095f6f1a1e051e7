// Package books provides catalog CRUD. The available-copy count is out of
// scope here: it is set once at creation and from then on only the
// inventory ledger touches it.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	// ErrBookNotFound is returned when no book exists with the given id.
	ErrBookNotFound = errors.New("book not found")

	// ErrInvalidQuantity is returned when a book is created with a
	// negative copy count.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book with its initial stock.
func (r *Repository) Create(book *entities.Book) (*entities.Book, error) {
	if book.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// Update changes the catalog fields of a book. Quantity is omitted on
// purpose: it belongs to the inventory ledger.
func (r *Repository) Update(id uint, updates *entities.Book) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(book).Updates(map[string]any{
		"title":       updates.Title,
		"author":      updates.Author,
		"isbn":        updates.ISBN,
		"category_id": updates.CategoryID,
		"description": updates.Description,
		"image_url":   updates.ImageURL,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a book from the catalog.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetByID retrieves a book with its category.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Category").First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListAll returns the whole catalog.
func (r *Repository) ListAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Category").Order("title ASC").Find(&books).Error
	return books, err
}

// ListAvailable returns books with at least one copy on the shelf, the set
// offered for borrowing.
func (r *Repository) ListAvailable() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Category").
		Where("quantity > 0").
		Order("title ASC").
		Find(&books).Error
	return books, err
}
