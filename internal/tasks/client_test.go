package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/inventory"
	"github.com/mrlokans/bookstore/internal/entities"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// The queue database lives next to the main one
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

// An enqueued restock eventually lands the missing increment.
func TestRestockTask_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "store.db")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var category entities.Category
	require.NoError(t, db.DB.First(&category).Error)
	book := &entities.Book{Title: "Missing Copy", Author: "Author", CategoryID: category.ID, Quantity: 0}
	require.NoError(t, db.DB.Create(book).Error)

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ledger := inventory.NewRepository(db.DB)
	client.Register(NewRestockQueue(ledger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.NoError(t, NewRestocker(client).EnqueueRestock(book.ID))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		quantity, err := ledger.Quantity(book.ID)
		require.NoError(t, err)
		if quantity == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("restock task did not run within the deadline")
}

// A restock for a deleted book is dropped, not retried forever.
func TestRestockProcessor_BookGone(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "store.db")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	ledger := inventory.NewRepository(db.DB)
	processor := RestockProcessor(ledger)

	err = processor(context.Background(), RestockTask{BookID: 99999})
	assert.NoError(t, err)
}
