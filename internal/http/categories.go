package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/database/categories"
	"github.com/mrlokans/bookstore/internal/entities"
)

// CategoryStore defines database operations for category management.
type CategoryStore interface {
	Create(name, description string) (*entities.Category, error)
	Update(id uint, name, description string) (*entities.Category, error)
	Delete(id uint) error
	GetByID(id uint) (*entities.Category, error)
	ListAll() ([]entities.Category, error)
}

type CategoriesController struct {
	store   CategoryStore
	auditor *audit.Auditor
}

func NewCategoriesController(store CategoryStore, auditor *audit.Auditor) *CategoriesController {
	return &CategoriesController{store: store, auditor: auditor}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListCategories returns all categories.
// GET /categories
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	result, err := cc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": result, "count": len(result)})
}

// CreateCategory adds a new category.
// POST /categories
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category, err := cc.store.Create(req.Name, req.Description)
	if err != nil {
		respondInternalError(c, err, "create category")
		return
	}
	respondCreated(c, category)
}

// UpdateCategory edits name and description.
// PUT /categories/:id
func (cc *CategoriesController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category, err := cc.store.Update(id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, categories.ErrCategoryNotFound) {
			respondNotFound(c, "category")
			return
		}
		respondInternalError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category unless books still reference it.
// DELETE /categories/:id
func (cc *CategoriesController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.store.Delete(id); err != nil {
		switch {
		case errors.Is(err, categories.ErrCategoryNotFound):
			respondNotFound(c, "category")
		case errors.Is(err, categories.ErrCategoryInUse):
			respondConflict(c, err.Error(), CodeCategoryInUse)
		default:
			respondInternalError(c, err, "delete category")
		}
		return
	}

	if cc.auditor != nil {
		if _, err := cc.auditor.Record(audit.Event{
			Type:       audit.EventCategoryDeleted,
			UserID:     GetUserID(c),
			CategoryID: id,
		}); err != nil {
			log.Printf("Failed to write category delete audit event: %v", err)
		}
	}

	respondSuccess(c, "category successfully deleted")
}
