// Command seed_demo creates a demo database with sample users, books,
// loans, reviews and favorites.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/favorites"
	"github.com/mrlokans/bookstore/internal/database/inventory"
	"github.com/mrlokans/bookstore/internal/database/loans"
	"github.com/mrlokans/bookstore/internal/database/reviews"
	"github.com/mrlokans/bookstore/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	users := createUsers(db)
	created := createBooks(db)
	createCirculation(db, users, created)

	log.Println("Demo database generated successfully!")
	log.Println("Demo accounts sign in with password 'password123'")
}

func createUsers(db *database.Database) []entities.User {
	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	accounts := []struct {
		name  string
		email string
	}{
		{"Alice Carter", "alice@example.com"},
		{"Bruno Diaz", "bruno@example.com"},
		{"Chinwe Okafor", "chinwe@example.com"},
	}

	var users []entities.User
	for _, a := range accounts {
		user, err := service.Signup(a.name, a.email, "password123")
		if err != nil {
			log.Printf("Failed to create user %s: %v", a.email, err)
			continue
		}
		log.Printf("Created user: %s <%s>", user.Name, user.Email)
		users = append(users, *user)
	}
	return users
}

func createBooks(db *database.Database) []entities.Book {
	repo := books.NewRepository(db.DB)

	categories, err := categoriesByName(db)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}

	samples := []entities.Book{
		{
			Title:       "Meditations",
			Author:      "Marcus Aurelius",
			ISBN:        "9780140449334",
			CategoryID:  categories["Non-fiction"],
			Description: "Private notes of the Roman emperor on Stoic practice.",
			Quantity:    3,
		},
		{
			Title:       "The Time Machine",
			Author:      "H.G. Wells",
			ISBN:        "9780553213515",
			CategoryID:  categories["Fiction"],
			Description: "A Victorian inventor travels to the far future.",
			Quantity:    2,
		},
		{
			Title:       "On the Origin of Species",
			Author:      "Charles Darwin",
			ISBN:        "9780451529060",
			CategoryID:  categories["Science"],
			Description: "The foundation text of evolutionary biology.",
			Quantity:    1,
		},
		{
			Title:       "The Art of Computer Programming, Vol. 1",
			Author:      "Donald E. Knuth",
			ISBN:        "9780201896831",
			CategoryID:  categories["Technology"],
			Description: "Fundamental algorithms, analyzed with full rigor.",
			Quantity:    2,
		},
		{
			Title:       "Alice's Adventures in Wonderland",
			Author:      "Lewis Carroll",
			ISBN:        "9780141439761",
			CategoryID:  categories["Children"],
			Description: "Alice follows a white rabbit down a hole.",
			Quantity:    4,
		},
		{
			Title:       "Frankenstein",
			Author:      "Mary Shelley",
			ISBN:        "9780141439471",
			CategoryID:  categories["Fiction"],
			Description: "A scientist animates a creature and abandons it.",
			Quantity:    0, // intentionally out of stock
		},
	}

	var created []entities.Book
	for i := range samples {
		book, err := repo.Create(&samples[i])
		if err != nil {
			log.Printf("Failed to save book %s: %v", samples[i].Title, err)
			continue
		}
		log.Printf("Saved: %s by %s (%d copies)", book.Title, book.Author, book.Quantity)
		created = append(created, *book)
	}
	return created
}

// createCirculation opens a few loans, returns one of them and leaves
// reviews and favorites behind so the demo API has data on every endpoint.
func createCirculation(db *database.Database, users []entities.User, bookList []entities.Book) {
	if len(users) < 3 || len(bookList) < 5 {
		log.Println("Not enough users or books for circulation data, skipping")
		return
	}

	ledger := inventory.NewRepository(db.DB)
	loanRepo := loans.NewRepository(db.DB, ledger)
	reviewRepo := reviews.NewRepository(db.DB)
	favoriteRepo := favorites.NewRepository(db.DB)

	due := time.Now().AddDate(0, 0, 14).Format(loans.DateLayout)

	open, err := loanRepo.Open(users[0].ID, bookList[0].ID, due)
	if err != nil {
		log.Printf("Failed to open loan: %v", err)
	} else {
		log.Printf("Opened loan %d: %s -> %s", open.ID, open.Book.Title, users[0].Email)
	}

	finished, err := loanRepo.Open(users[1].ID, bookList[1].ID, due)
	if err != nil {
		log.Printf("Failed to open loan: %v", err)
	} else if _, err := loanRepo.Return(finished.ID, time.Now().Format(loans.DateLayout)); err != nil {
		log.Printf("Failed to return loan %d: %v", finished.ID, err)
	} else {
		log.Printf("Returned loan %d: %s", finished.ID, finished.Book.Title)
	}

	if _, err := loanRepo.Open(users[2].ID, bookList[4].ID, due); err != nil {
		log.Printf("Failed to open loan: %v", err)
	}

	reviewSamples := []struct {
		userID  uint
		bookID  uint
		rating  int
		comment string
	}{
		{users[1].ID, bookList[1].ID, 5, "Short, strange and still unsettling."},
		{users[0].ID, bookList[0].ID, 4, "Repetitive on purpose, and better for it."},
		{users[2].ID, bookList[4].ID, 5, "Read it to my daughter twice already."},
	}
	for _, s := range reviewSamples {
		if _, err := reviewRepo.Create(s.userID, s.bookID, s.rating, s.comment); err != nil {
			log.Printf("Failed to create review: %v", err)
		}
	}

	favoriteSamples := []struct {
		userID uint
		bookID uint
	}{
		{users[0].ID, bookList[3].ID},
		{users[0].ID, bookList[0].ID},
		{users[2].ID, bookList[4].ID},
	}
	for _, s := range favoriteSamples {
		if err := favoriteRepo.Set(s.userID, s.bookID, true); err != nil {
			log.Printf("Failed to favorite book %d: %v", s.bookID, err)
		}
	}
}

func categoriesByName(db *database.Database) (map[string]uint, error) {
	var all []entities.Category
	if err := db.DB.Find(&all).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]uint, len(all))
	for _, c := range all {
		byName[c.Name] = c.ID
	}
	return byName, nil
}
