package entities

import (
	"time"
)

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Token        string    `gorm:"uniqueIndex;size:64" json:"-"` // API token, hidden from JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Book struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"index;size:512" json:"title"`
	Author      string   `gorm:"index;size:256" json:"author"`
	ISBN        string   `gorm:"index;size:20" json:"isbn,omitempty"`
	CategoryID  uint     `gorm:"index" json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string   `gorm:"size:2048" json:"image_url,omitempty"`

	// Quantity is the available copy count. It is owned by the inventory
	// ledger and must only change through its atomic increment/decrement;
	// the CHECK is a storage-level backstop against lost updates.
	Quantity int `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Loan struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	BookID             uint       `gorm:"index;not null" json:"book_id"`
	UserID             uint       `gorm:"index;not null" json:"user_id"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ReturnedAt         *time.Time `json:"returned_at"`

	// Status transitions exactly once, active -> returned. At most one
	// active loan may exist per (book, user); enforced by a partial unique
	// index created in database.NewDatabase, since gorm tags cannot
	// express it.
	Status LoanStatus `gorm:"size:20;default:'active';index" json:"status"`

	Book      Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"not null;uniqueIndex:idx_reviews_book_user" json:"book_id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_reviews_book_user" json:"user_id"`
	Rating  int    `gorm:"not null" json:"rating"` // 1-5, validated in the reviews repository
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	Book      Book      `gorm:"foreignKey:BookID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookFavorite is a pure membership set: the row existing means the user
// favorited the book.
type BookFavorite struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_favorites_user_book" json:"user_id"`
	BookID uint `gorm:"not null;uniqueIndex:idx_favorites_user_book" json:"book_id"`

	Book      Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

func (Loan) TableName() string {
	return "loans"
}

func (Review) TableName() string {
	return "reviews"
}

func (BookFavorite) TableName() string {
	return "book_favorites"
}
