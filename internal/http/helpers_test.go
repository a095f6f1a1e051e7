package http

import (
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

func setupControllerTestDB(t *testing.T, prefix string) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + prefix + "_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// authAs stands in for the token middleware in controller tests.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Next()
	}
}

func createControllerTestUser(t *testing.T, db *database.Database, email string) *entities.User {
	t.Helper()
	user := &entities.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "irrelevant",
		Token:        "token-" + email,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createControllerTestBook(t *testing.T, db *database.Database, title string, quantity int) *entities.Book {
	t.Helper()
	var category entities.Category
	require.NoError(t, db.DB.First(&category).Error)

	book := &entities.Book{
		Title:      title,
		Author:     "Test Author",
		CategoryID: category.ID,
		Quantity:   quantity,
	}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}
