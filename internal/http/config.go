package http

import (
	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Auditor  *audit.Auditor

	// Stores behind the controllers
	BookStore     BookStore
	CategoryStore CategoryStore
	LoanStore     LoanStore
	ReviewStore   ReviewStore
	FavoriteStore FavoriteStore
	UserStore     UserStore

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter

	// Application info
	Version string
}
