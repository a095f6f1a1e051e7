package database

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func TestNewDatabase_SeedsDefaultCategories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var count int64
	require.NoError(t, db.DB.Model(&entities.Category{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)

	var fiction entities.Category
	require.NoError(t, db.DB.Where("name = ?", "Fiction").First(&fiction).Error)
}

// Reopening an existing database must not duplicate the seeded categories.
func TestNewDatabase_SeedIsIdempotent(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Model(&entities.Category{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

// The partial unique index permits any number of returned loans per
// (book, user) pair but at most one active one.
func TestNewDatabase_ActiveLoanIndex(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Name: "Reader", Email: "reader@example.com", Token: "tok"}
	require.NoError(t, db.DB.Create(user).Error)

	var category entities.Category
	require.NoError(t, db.DB.First(&category).Error)
	book := &entities.Book{Title: "Book", Author: "Author", CategoryID: category.ID, Quantity: 5}
	require.NoError(t, db.DB.Create(book).Error)

	due := time.Now().AddDate(0, 0, 14)
	returnedAt := time.Now()

	// Two finished loans for the same pair are fine
	for i := 0; i < 2; i++ {
		loan := &entities.Loan{
			BookID:             book.ID,
			UserID:             user.ID,
			ExpectedReturnDate: due,
			ReturnedAt:         &returnedAt,
			Status:             entities.LoanStatusReturned,
		}
		require.NoError(t, db.DB.Create(loan).Error)
	}

	// One active loan is fine
	active := &entities.Loan{
		BookID:             book.ID,
		UserID:             user.ID,
		ExpectedReturnDate: due,
		Status:             entities.LoanStatusActive,
	}
	require.NoError(t, db.DB.Create(active).Error)

	// A second active one violates the index
	second := &entities.Loan{
		BookID:             book.ID,
		UserID:             user.ID,
		ExpectedReturnDate: due,
		Status:             entities.LoanStatusActive,
	}
	err := db.DB.Create(second).Error
	require.Error(t, err)
	assert.True(t, IsUniqueConstraintErr(err))
}

func TestNewDatabase_ForeignKeysEnforced(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	book := &entities.Book{Title: "Orphan", Author: "Author", CategoryID: 99999, Quantity: 1}
	err := db.DB.Create(book).Error
	require.Error(t, err)
	assert.True(t, IsForeignKeyConstraintErr(err))
}

// The CHECK on books.quantity is the last line of defense against a count
// going negative through any write path.
func TestNewDatabase_QuantityCheckConstraint(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var category entities.Category
	require.NoError(t, db.DB.First(&category).Error)
	book := &entities.Book{Title: "Book", Author: "Author", CategoryID: category.ID, Quantity: 0}
	require.NoError(t, db.DB.Create(book).Error)

	err := db.DB.Exec("UPDATE books SET quantity = quantity - 1 WHERE id = ?", book.ID).Error
	assert.Error(t, err)
}
