package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database/reviews"
	"github.com/mrlokans/bookstore/internal/entities"
)

// ReviewStore defines database operations for review management.
type ReviewStore interface {
	Create(userID, bookID uint, rating int, comment string) (*entities.Review, error)
	Update(reviewID, userID uint, rating int, comment string) (*entities.Review, error)
	Delete(reviewID, userID uint) error
	ListForBook(bookID uint) ([]entities.Review, error)
	ListAll() ([]entities.Review, error)
}

type ReviewsController struct {
	store ReviewStore
}

func NewReviewsController(store ReviewStore) *ReviewsController {
	return &ReviewsController{store: store}
}

// Rating carries no required binding: gin would treat a zero rating as a
// missing field, and zero must reach the range check to come back as an
// invalid rating instead.
type createReviewRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListReviews returns reviews, optionally filtered by book.
// GET /reviews?book_id=N
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	var (
		result []entities.Review
		err    error
	)

	if c.Query("book_id") != "" {
		bookID, ok := parseQueryID(c, "book_id")
		if !ok {
			return
		}
		result, err = rc.store.ListForBook(bookID)
	} else {
		result, err = rc.store.ListAll()
	}
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": result, "count": len(result)})
}

// CreateReview posts the authenticated user's review of a book.
// POST /reviews
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	review, err := rc.store.Create(GetUserID(c), req.BookID, req.Rating, req.Comment)
	if err != nil {
		rc.respondReviewError(c, err, "create review")
		return
	}
	respondCreated(c, review)
}

// UpdateReview edits the authenticated user's own review. Book and user
// references never change.
// PUT /reviews/:id
func (rc *ReviewsController) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := rc.store.Update(id, GetUserID(c), req.Rating, req.Comment)
	if err != nil {
		rc.respondReviewError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview removes the authenticated user's own review.
// DELETE /reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := rc.store.Delete(id, GetUserID(c)); err != nil {
		rc.respondReviewError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review successfully deleted")
}

func (rc *ReviewsController) respondReviewError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, reviews.ErrInvalidRating):
		respondError(c, http.StatusBadRequest, err.Error(), CodeInvalidRating)
	case errors.Is(err, reviews.ErrDuplicateReview):
		respondConflict(c, err.Error(), CodeDuplicateReview)
	case errors.Is(err, reviews.ErrReviewNotFound):
		respondNotFound(c, "review")
	case errors.Is(err, reviews.ErrNotOwner):
		respondError(c, http.StatusForbidden, "not authorized to modify this review", CodeForbidden)
	default:
		respondInternalError(c, err, context)
	}
}
