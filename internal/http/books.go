package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
)

// BookStore defines database operations for catalog management.
type BookStore interface {
	Create(book *entities.Book) (*entities.Book, error)
	Update(id uint, updates *entities.Book) (*entities.Book, error)
	Delete(id uint) error
	GetByID(id uint) (*entities.Book, error)
	ListAll() ([]entities.Book, error)
	ListAvailable() ([]entities.Book, error)
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type bookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	ISBN        string `json:"isbn"`
	CategoryID  uint   `json:"category_id"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
}

// ListBooks returns the whole catalog.
// GET /books
func (bc *BooksController) ListBooks(c *gin.Context) {
	result, err := bc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

// ListAvailableBooks returns books with at least one copy on the shelf.
// GET /books/available
func (bc *BooksController) ListAvailableBooks(c *gin.Context) {
	result, err := bc.store.ListAvailable()
	if err != nil {
		respondInternalError(c, err, "list available books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

// GetBook fetches a single book.
// GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook adds a new book with its initial stock.
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book, err := bc.store.Create(&entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if errors.Is(err, books.ErrInvalidQuantity) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook edits catalog fields. The available copy count is not
// editable here; it only moves through loans and returns.
// PUT /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book, err := bc.store.Update(id, &entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book from the catalog.
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book successfully deleted")
}
