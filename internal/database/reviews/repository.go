// Package reviews enforces the at-most-one-review-per-(user, book) rule.
//
// The uniqueness lives in the idx_reviews_book_user index, not in a
// check-then-insert sequence: concurrent duplicate submissions hit the
// constraint and exactly one wins.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	// ErrInvalidRating is returned when a rating falls outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrDuplicateReview is returned when the user already reviewed the book.
	ErrDuplicateReview = errors.New("user already reviewed this book")

	// ErrReviewNotFound is returned when no review exists with the given id.
	ErrReviewNotFound = errors.New("review not found")

	// ErrNotOwner is returned when a user tries to modify someone else's
	// review.
	ErrNotOwner = errors.New("review belongs to another user")
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review. A violation of the (book, user) unique index is
// reported as ErrDuplicateReview.
func (r *Repository) Create(userID, bookID uint, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &entities.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := r.db.Create(review).Error; err != nil {
		if database.IsUniqueConstraintErr(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

// Update changes rating and comment of the user's own review. Book and user
// references are immutable.
func (r *Repository) Update(reviewID, userID uint, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := r.getOwned(reviewID, userID)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(review).Updates(map[string]any{
		"rating":  rating,
		"comment": comment,
	}).Error
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the user's own review.
func (r *Repository) Delete(reviewID, userID uint) error {
	review, err := r.getOwned(reviewID, userID)
	if err != nil {
		return err
	}
	return r.db.Delete(review).Error
}

// GetByID retrieves a review by id.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForBook returns all reviews of a book, newest first.
func (r *Repository) ListForBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListAll returns every review, newest first. Catalog display only.
func (r *Repository) ListAll() ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Order("created_at DESC, id DESC").Find(&reviews).Error
	return reviews, err
}

func (r *Repository) getOwned(reviewID, userID uint) (*entities.Review, error) {
	review, err := r.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotOwner
	}
	return review, nil
}
