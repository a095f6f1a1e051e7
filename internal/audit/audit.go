// Package audit persists circulation events as JSON artifacts, one file per
// event, for offline inspection of loan and inventory history.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLoanOpened      EventType = "loan_opened"
	EventLoanReturned    EventType = "loan_returned"
	EventCategoryDeleted EventType = "category_deleted"
	EventOverdueSweep    EventType = "overdue_sweep"
)

// Event is the envelope written for every audit artifact.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	UserID     uint      `json:"user_id,omitempty"`
	BookID     uint      `json:"book_id,omitempty"`
	LoanID     uint      `json:"loan_id,omitempty"`
	CategoryID uint      `json:"category_id,omitempty"`
	Details    any       `json:"details,omitempty"`
}

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// Record writes an event with the current timestamp. Failures are returned
// for the caller to log; an audit failure never blocks the operation that
// produced it.
func (a *Auditor) Record(event Event) (string, error) {
	event.OccurredAt = time.Now()
	return a.SaveJSON(event)
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	auditID := uuid.New()
	filename := fmt.Sprintf("%s.json", auditID.String())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
