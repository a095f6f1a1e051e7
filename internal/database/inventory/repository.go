// Package inventory owns the available-copy count of every book.
//
// The count is the single piece of state contended by concurrent borrow and
// return requests, so both mutations are issued as one conditional UPDATE at
// the storage layer. Callers never read the count first and write it back.
//
// # Usage
//
//	ledger := inventory.NewRepository(db)
//	remaining, err := ledger.Decrement(bookID)
package inventory

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	// ErrOutOfStock is returned by Decrement when no copies are available.
	ErrOutOfStock = errors.New("no copies available")

	// ErrBookNotFound is returned when the book does not exist at all.
	ErrBookNotFound = errors.New("book not found")
)

// Repository is the inventory ledger over a gorm handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new inventory repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle, so a
// caller can make a ledger mutation part of its own transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Decrement atomically takes one copy off the shelf and returns the new
// count. The guard `quantity > 0` lives in the UPDATE itself: two concurrent
// borrowers can never both succeed when only one copy remains.
func (r *Repository) Decrement(bookID uint) (int, error) {
	return r.adjust(bookID, "quantity - 1", "id = ? AND quantity > 0")
}

// Increment atomically puts one copy back and returns the new count. A
// return always succeeds; the count only ever climbs back toward the
// original stock, so there is no upper bound to check.
func (r *Repository) Increment(bookID uint) (int, error) {
	return r.adjust(bookID, "quantity + 1", "id = ?")
}

// Quantity reads the current count. Reads may be stale by one write; that is
// acceptable everywhere this is used.
func (r *Repository) Quantity(bookID uint) (int, error) {
	var book entities.Book
	err := r.db.Select("quantity").First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrBookNotFound
	}
	if err != nil {
		return 0, err
	}
	return book.Quantity, nil
}

func (r *Repository) adjust(bookID uint, expr, condition string) (int, error) {
	var quantity int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where(condition, bookID).
			UpdateColumn("quantity", gorm.Expr(expr))
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Nothing matched: either the book is gone or the shelf
			// is empty. Tell the two apart for the caller.
			var count int64
			if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBookNotFound
			}
			return ErrOutOfStock
		}

		var book entities.Book
		if err := tx.Select("quantity").First(&book, bookID).Error; err != nil {
			return err
		}
		quantity = book.Quantity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return quantity, nil
}
