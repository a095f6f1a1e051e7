// Package favorites maintains the (user, book) favorite set. Both setting
// and clearing are idempotent; the insert race resolves through
// ON CONFLICT DO NOTHING against the (user_id, book_id) unique index.
package favorites

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookstore/internal/entities"
)

// Repository handles all favorite database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Set makes "is this book a favorite of this user" equal to desired.
// Repeating the call with the same input leaves the same end state and
// never errors.
func (r *Repository) Set(userID, bookID uint, desired bool) error {
	if desired {
		favorite := &entities.BookFavorite{
			UserID: userID,
			BookID: bookID,
		}
		return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error
	}

	return r.db.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.BookFavorite{}).Error
}

// IsFavorite reports whether the pair is in the set.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.BookFavorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns the user's favorites with book display fields.
func (r *Repository) ListForUser(userID uint) ([]entities.BookFavorite, error) {
	var favorites []entities.BookFavorite
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&favorites).Error
	return favorites, err
}
