package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/entities"
)

// FavoriteStore defines database operations for the favorite set.
type FavoriteStore interface {
	Set(userID, bookID uint, desired bool) error
	IsFavorite(userID, bookID uint) (bool, error)
	ListForUser(userID uint) ([]entities.BookFavorite, error)
}

type FavoritesController struct {
	store FavoriteStore
}

func NewFavoritesController(store FavoriteStore) *FavoritesController {
	return &FavoritesController{store: store}
}

type setFavoriteRequest struct {
	BookID  uint  `json:"book_id" binding:"required"`
	Desired *bool `json:"desired" binding:"required"`
}

type addFavoriteRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

// ListFavorites returns the authenticated user's favorites.
// GET /book-favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	favorites, err := fc.store.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites, "count": len(favorites)})
}

// GetFavorite reports whether the authenticated user has favorited the book.
// GET /book-favorites/:book_id
func (fc *FavoritesController) GetFavorite(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	favorited, err := fc.store.IsFavorite(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, err, "get favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"book_id": bookID, "favorited": favorited})
}

// SetFavorite makes the favorite flag equal to desired. Idempotent in both
// directions: re-favoriting and un-favoriting something absent are no-ops.
// PUT /book-favorites
func (fc *FavoritesController) SetFavorite(c *gin.Context) {
	var req setFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and desired are required")
		return
	}

	if err := fc.store.Set(GetUserID(c), req.BookID, *req.Desired); err != nil {
		respondInternalError(c, err, "set favorite")
		return
	}
	respondSuccess(c, "favorite updated")
}

// AddFavorite marks a book as favorite. Kept for compatibility with the
// upstream POST endpoint; equivalent to SetFavorite with desired = true.
// POST /book-favorites
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	if err := fc.store.Set(GetUserID(c), req.BookID, true); err != nil {
		respondInternalError(c, err, "add favorite")
		return
	}
	respondCreated(c, gin.H{"book_id": req.BookID, "favorited": true})
}
