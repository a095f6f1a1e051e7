package favorites

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_favorites_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db.DB, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	user := &entities.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "irrelevant",
		Token:        "token-" + email,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	var category entities.Category
	require.NoError(t, db.First(&category).Error)

	book := &entities.Book{
		Title:      title,
		Author:     "Test Author",
		CategoryID: category.ID,
		Quantity:   1,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_Set(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	book := createTestBook(t, db, "Test Book")

	require.NoError(t, repo.Set(user.ID, book.ID, true))

	isFavorite, err := repo.IsFavorite(user.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	require.NoError(t, repo.Set(user.ID, book.ID, false))

	isFavorite, err = repo.IsFavorite(user.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, isFavorite)
}

// Setting the same state twice is a no-op, never an error, and never a
// second row.
func TestRepository_Set_Idempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	book := createTestBook(t, db, "Test Book")

	require.NoError(t, repo.Set(user.ID, book.ID, true))
	require.NoError(t, repo.Set(user.ID, book.ID, true))
	require.NoError(t, repo.Set(user.ID, book.ID, true))

	var count int64
	require.NoError(t, db.Model(&entities.BookFavorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Clearing an already-clear pair is fine too
	require.NoError(t, repo.Set(user.ID, book.ID, false))
	require.NoError(t, repo.Set(user.ID, book.ID, false))

	require.NoError(t, db.Model(&entities.BookFavorite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_ListForUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	first := createTestBook(t, db, "First Book")
	second := createTestBook(t, db, "Second Book")

	require.NoError(t, repo.Set(alice.ID, first.ID, true))
	require.NoError(t, repo.Set(alice.ID, second.ID, true))
	require.NoError(t, repo.Set(bob.ID, first.ID, true))

	list, err := repo.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Book display fields come along
	titles := []string{list[0].Book.Title, list[1].Book.Title}
	assert.ElementsMatch(t, []string{"First Book", "Second Book"}, titles)

	list, err = repo.ListForUser(bob.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
