package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/entities"
)

// UserStore defines the identity operations the user endpoints need.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
	UpdateProfile(id uint, name, email string) (*entities.User, error)
	ListUsers() ([]entities.User, error)
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// ListUsers returns all user profiles.
// GET /users
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.store.ListUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// Me returns the authenticated user's profile.
// GET /users/me
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.store.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe edits the authenticated user's name and email, the only mutable
// profile fields.
// PUT /users/me
func (uc *UsersController) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and email are required")
		return
	}

	user, err := uc.store.UpdateProfile(GetUserID(c), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, auth.ErrEmailInvalid), errors.Is(err, auth.ErrNameRequired):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update profile")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}
