package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookstore/internal/database/inventory"
)

// RestockTask re-applies an inventory increment for a book whose loan was
// already marked returned. Retrying is safe: the task only exists while the
// increment has not happened, and it is enqueued exactly once per failed
// increment.
type RestockTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for restock tasks.
func (t RestockTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "restock_book",
		MaxAttempts: 10,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RestockProcessor creates a processor function for RestockTask.
func RestockProcessor(ledger *inventory.Repository) backlite.QueueProcessor[RestockTask] {
	return func(ctx context.Context, task RestockTask) error {
		quantity, err := ledger.Increment(task.BookID)
		if err != nil {
			if errors.Is(err, inventory.ErrBookNotFound) {
				// Book was deleted while the restock was pending;
				// nothing left to count.
				log.Printf("[TASK] Restock of book %d dropped: %v", task.BookID, err)
				return nil
			}
			return fmt.Errorf("restock book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Restocked book %d, quantity now %d", task.BookID, quantity)
		return nil
	}
}

// NewRestockQueue creates a backlite queue for restock tasks.
func NewRestockQueue(ledger *inventory.Repository) backlite.Queue {
	return backlite.NewQueue(RestockProcessor(ledger))
}

// Restocker adapts the task client to the loans repository's Restocker
// interface.
type Restocker struct {
	client *Client
}

// NewRestocker creates a Restocker backed by the task client.
func NewRestocker(client *Client) *Restocker {
	return &Restocker{client: client}
}

// EnqueueRestock schedules a retried increment for the book.
func (r *Restocker) EnqueueRestock(bookID uint) error {
	_, err := r.client.Add(RestockTask{BookID: bookID}).Save()
	if err != nil {
		return fmt.Errorf("failed to enqueue restock for book %d: %w", bookID, err)
	}
	return nil
}
