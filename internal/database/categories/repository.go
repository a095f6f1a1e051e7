// Package categories provides category CRUD with a referential-integrity
// guard on delete: a category that books still reference cannot be removed.
//
// The application-level count produces the friendly error; the sqlite
// foreign key on books.category_id is the authoritative backstop for the
// rare race with a concurrent book insert.
package categories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	// ErrCategoryNotFound is returned when no category exists with the
	// given id.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse is returned when books still reference the category.
	ErrCategoryInUse = errors.New("category is referenced by existing books")
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category.
func (r *Repository) Create(name, description string) (*entities.Category, error) {
	category := &entities.Category{
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update changes name and description.
func (r *Repository) Update(id uint, name, description string) (*entities.Category, error) {
	category, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	err = r.db.Model(category).Updates(map[string]any{
		"name":        name,
		"description": description,
	}).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category, refusing while any book references it. The
// count check and the delete run in one transaction, and the foreign key
// constraint catches whatever slips between them.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category entities.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var referencing int64
		if err := tx.Model(&entities.Book{}).Where("category_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return ErrCategoryInUse
		}

		return tx.Delete(&entities.Category{}, id).Error
	})
	if database.IsForeignKeyConstraintErr(err) {
		return ErrCategoryInUse
	}
	return err
}

// GetByID retrieves a category by id.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListAll returns all categories ordered by name.
func (r *Repository) ListAll() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}
