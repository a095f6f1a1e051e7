package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

var defaultCategories = []entities.Category{
	{Name: "Fiction", Description: "Novels and short stories"},
	{Name: "Non-fiction", Description: "Essays, biography, history"},
	{Name: "Science", Description: "Science and popular science"},
	{Name: "Technology", Description: "Programming and engineering"},
	{Name: "Children", Description: "Books for young readers"},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the sqlite database, migrates the schema
// and installs the constraints the circulation rules rely on.
//
// Two constraints cannot be expressed with gorm struct tags and are created
// with raw DDL:
//   - a partial unique index on loans(book_id, user_id) restricted to
//     status = 'active', which is what makes "one active loan per user and
//     book" hold under concurrent inserts;
//   - foreign keys are switched on in the DSN so that deleting a category
//     that books still reference is rejected by the storage layer even if
//     the application-level check races with a concurrent book insert.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Loan{},
		&entities.Review{},
		&entities.BookFavorite{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_loans_active_book_user
		ON loans(book_id, user_id) WHERE status = 'active'`).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create active loan index: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedCategories() error {
	for _, category := range defaultCategories {
		var existing entities.Category
		result := d.DB.Where("name = ?", category.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Name, err)
			}
			log.Printf("Created category: %s", category.Name)
		} else if result.Error != nil {
			return fmt.Errorf("failed to look up category %s: %w", category.Name, result.Error)
		}
	}
	return nil
}
