// Package loans implements the loan state machine: a loan is created active,
// transitions exactly once to returned, and never reverses.
//
// Opening a loan and taking a copy off the shelf happen inside one
// transaction; the partial unique index on loans(book_id, user_id) for
// status = 'active' (created in database.NewDatabase) is what serializes
// concurrent open attempts for the same pair; there is no racy pre-insert
// existence check.
package loans

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/inventory"
	"github.com/mrlokans/bookstore/internal/entities"
)

// DateLayout is the wire format for loan dates, matching the upstream API.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned when a date does not parse as YYYY-MM-DD,
	// or when an expected return date lies in the past.
	ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")

	// ErrDuplicateActiveLoan is returned when the user already holds an
	// active loan of the same book.
	ErrDuplicateActiveLoan = errors.New("user already has an active loan for this book")

	// ErrLoanNotFound is returned when no loan exists with the given id.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrLoanNotActive is returned when the loan was already returned.
	ErrLoanNotActive = errors.New("loan is not active")
)

// Restocker schedules a retried inventory increment for a book whose return
// was recorded but whose shelf count could not be bumped in the same breath.
type Restocker interface {
	EnqueueRestock(bookID uint) error
}

// Repository handles all loan database operations.
type Repository struct {
	db        *gorm.DB
	ledger    *inventory.Repository
	restocker Restocker
	now       func() time.Time
}

// NewRepository creates a new loans repository on top of the inventory
// ledger.
func NewRepository(db *gorm.DB, ledger *inventory.Repository) *Repository {
	return &Repository{db: db, ledger: ledger, now: time.Now}
}

// SetRestocker installs the retry queue used when an increment fails after a
// return was recorded. Optional; without it the increment failure is
// surfaced to the caller instead.
func (r *Repository) SetRestocker(restocker Restocker) {
	r.restocker = restocker
}

// Open creates an active loan for the user and takes one copy off the
// shelf, as a single transaction. The insert runs first so that a duplicate
// active loan is reported even when the book is also out of stock; the
// rollback puts any decremented copy back.
func (r *Repository) Open(userID, bookID uint, expectedReturnDate string) (*entities.Loan, error) {
	expected, err := time.Parse(DateLayout, expectedReturnDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	// Parsed dates sit at UTC midnight, so today must too; building it
	// from the caller's calendar day keeps "today" valid in every zone.
	y, m, d := r.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if expected.Before(today) {
		return nil, ErrInvalidDate
	}

	loan := &entities.Loan{
		BookID:             bookID,
		UserID:             userID,
		ExpectedReturnDate: expected,
		ReturnedAt:         nil,
		Status:             entities.LoanStatusActive,
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			if database.IsUniqueConstraintErr(err) {
				return ErrDuplicateActiveLoan
			}
			// The loans.book_id foreign key trips before the ledger
			// ever sees the id.
			if database.IsForeignKeyConstraintErr(err) {
				return inventory.ErrBookNotFound
			}
			return err
		}
		if _, err := r.ledger.WithTx(tx).Decrement(bookID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.db.Preload("Book").First(loan, loan.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload loan: %w", err)
	}
	return loan, nil
}

// Return flips the loan to returned and puts the copy back on the shelf.
// The flip is a conditional update on status = 'active', so a second return
// of the same loan fails instead of double-incrementing the count.
//
// The status flip is the source of truth: if the increment fails afterwards
// the flip is not reverted. The book is physically back; the count catches
// up through the restock queue.
func (r *Repository) Return(loanID uint, returnDate string) (*entities.Loan, error) {
	returned, err := time.Parse(DateLayout, returnDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	result := r.db.Model(&entities.Loan{}).
		Where("id = ? AND status = ?", loanID, entities.LoanStatusActive).
		Updates(map[string]any{
			"status":      entities.LoanStatusReturned,
			"returned_at": returned,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&entities.Loan{}).Where("id = ?", loanID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrLoanNotFound
		}
		return nil, ErrLoanNotActive
	}

	var loan entities.Loan
	if err := r.db.Preload("Book").First(&loan, loanID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload loan: %w", err)
	}

	if _, err := r.ledger.Increment(loan.BookID); err != nil {
		if r.restocker == nil {
			return nil, fmt.Errorf("loan %d returned but restock failed: %w", loanID, err)
		}
		log.Printf("Restock of book %d failed after loan %d return, queuing retry: %v", loan.BookID, loanID, err)
		if qErr := r.restocker.EnqueueRestock(loan.BookID); qErr != nil {
			return nil, fmt.Errorf("loan %d returned but restock could not be queued: %w", loanID, qErr)
		}
	}

	return &loan, nil
}

// ListForUser returns the user's loans, newest first, with book display
// fields attached.
func (r *Repository) ListForUser(userID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&loans).Error
	return loans, err
}

// GetByID retrieves a single loan with its book.
func (r *Repository) GetByID(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("Book").First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListOverdue returns active loans whose expected return date is before the
// given day. Used by the periodic overdue sweep.
func (r *Repository) ListOverdue(asOf time.Time) ([]entities.Loan, error) {
	y, m, d := asOf.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("status = ? AND expected_return_date < ?", entities.LoanStatusActive, day).
		Order("expected_return_date ASC").
		Find(&loans).Error
	return loans, err
}
