// Package scheduler runs periodic maintenance jobs. The only job today is
// the overdue sweep: a cron entry that reports active loans past their
// expected return date. It reads, logs and audits; it never mutates loan or
// inventory state and it sends nothing to borrowers.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/database/loans"
)

// OverdueSweepScheduler manages the periodic overdue-loan report.
type OverdueSweepScheduler struct {
	loans   *loans.Repository
	auditor *audit.Auditor

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewOverdueSweepScheduler creates a new scheduler instance.
func NewOverdueSweepScheduler(loanRepo *loans.Repository, auditor *audit.Auditor) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		loans:   loanRepo,
		auditor: auditor,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the sweep with the given cron expression.
func (s *OverdueSweepScheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, s.runSweep)
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep '%s': %w", schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	log.Printf("Overdue sweep scheduled: %s", schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *OverdueSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Overdue sweep stopped")
}

// RunOnce executes a sweep immediately. Exposed for the sweep to be
// triggered outside the schedule.
func (s *OverdueSweepScheduler) RunOnce() {
	s.runSweep()
}

func (s *OverdueSweepScheduler) runSweep() {
	overdue, err := s.loans.ListOverdue(time.Now())
	if err != nil {
		log.Printf("Overdue sweep failed: %v", err)
		return
	}

	if len(overdue) == 0 {
		log.Printf("Overdue sweep: no overdue loans")
		return
	}

	type overdueLoan struct {
		LoanID   uint   `json:"loan_id"`
		BookID   uint   `json:"book_id"`
		UserID   uint   `json:"user_id"`
		Title    string `json:"title"`
		Expected string `json:"expected_return_date"`
	}
	details := make([]overdueLoan, 0, len(overdue))
	for _, loan := range overdue {
		details = append(details, overdueLoan{
			LoanID:   loan.ID,
			BookID:   loan.BookID,
			UserID:   loan.UserID,
			Title:    loan.Book.Title,
			Expected: loan.ExpectedReturnDate.Format(loans.DateLayout),
		})
	}

	log.Printf("Overdue sweep: %d active loans past their expected return date", len(overdue))
	if s.auditor != nil {
		if _, err := s.auditor.Record(audit.Event{
			Type:    audit.EventOverdueSweep,
			Details: details,
		}); err != nil {
			log.Printf("Failed to write overdue sweep audit event: %v", err)
		}
	}
}
