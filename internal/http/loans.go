package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/database/inventory"
	"github.com/mrlokans/bookstore/internal/database/loans"
	"github.com/mrlokans/bookstore/internal/entities"
)

// LoanStore defines database operations for loan management.
type LoanStore interface {
	Open(userID, bookID uint, expectedReturnDate string) (*entities.Loan, error)
	Return(loanID uint, returnDate string) (*entities.Loan, error)
	ListForUser(userID uint) ([]entities.Loan, error)
	GetByID(id uint) (*entities.Loan, error)
}

type LoansController struct {
	store   LoanStore
	auditor *audit.Auditor
}

func NewLoansController(store LoanStore, auditor *audit.Auditor) *LoansController {
	return &LoansController{store: store, auditor: auditor}
}

type openLoanRequest struct {
	BookID             uint   `json:"book_id" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required"`
}

type returnLoanRequest struct {
	ReturnedAt string `json:"returned_at" binding:"required"`
}

// ListLoans returns the authenticated user's loans, newest first.
// GET /loans
func (lc *LoansController) ListLoans(c *gin.Context) {
	userLoans, err := lc.store.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": userLoans, "count": len(userLoans)})
}

// OpenLoan borrows a book for the authenticated user.
// POST /loans
func (lc *LoansController) OpenLoan(c *gin.Context) {
	var req openLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and expected_return_date are required")
		return
	}

	userID := GetUserID(c)
	loan, err := lc.store.Open(userID, req.BookID, req.ExpectedReturnDate)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrInvalidDate):
			respondError(c, http.StatusBadRequest, err.Error(), CodeInvalidDate)
		case errors.Is(err, loans.ErrDuplicateActiveLoan):
			respondConflict(c, err.Error(), CodeDuplicateLoan)
		case errors.Is(err, inventory.ErrOutOfStock):
			respondConflict(c, err.Error(), CodeOutOfStock)
		case errors.Is(err, inventory.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "open loan")
		}
		return
	}

	lc.recordEvent(audit.EventLoanOpened, loan)
	respondCreated(c, loan)
}

// ReturnLoan records the return of a borrowed book.
// PUT /loans/:id/return
func (lc *LoansController) ReturnLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req returnLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "returned_at is required, use YYYY-MM-DD", CodeInvalidDate)
		return
	}

	// Loans may be returned only by their borrower.
	existing, err := lc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, loans.ErrLoanNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "return loan")
		return
	}
	if existing.UserID != GetUserID(c) {
		respondError(c, http.StatusForbidden, "not authorized to return this loan", CodeForbidden)
		return
	}

	loan, err := lc.store.Return(id, req.ReturnedAt)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrInvalidDate):
			respondError(c, http.StatusBadRequest, err.Error(), CodeInvalidDate)
		case errors.Is(err, loans.ErrLoanNotFound):
			respondNotFound(c, "loan")
		case errors.Is(err, loans.ErrLoanNotActive):
			respondConflict(c, err.Error(), CodeInvalidState)
		default:
			respondInternalError(c, err, "return loan")
		}
		return
	}

	lc.recordEvent(audit.EventLoanReturned, loan)
	c.JSON(http.StatusOK, loan)
}

func (lc *LoansController) recordEvent(eventType audit.EventType, loan *entities.Loan) {
	if lc.auditor == nil {
		return
	}
	if _, err := lc.auditor.Record(audit.Event{
		Type:   eventType,
		UserID: loan.UserID,
		BookID: loan.BookID,
		LoanID: loan.ID,
	}); err != nil {
		log.Printf("Failed to write %s audit event: %v", eventType, err)
	}
}
