package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Every route behind the identity gate; the middleware skips its
	// public paths (/health, /ping, /auth/*).
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Auth endpoints
	if cfg.AuthService != nil {
		authController := auth.NewController(cfg.AuthService, cfg.RateLimiter)
		authController.RegisterRoutes(router)
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)
	categoriesController := NewCategoriesController(cfg.CategoryStore, cfg.Auditor)
	loansController := NewLoansController(cfg.LoanStore, cfg.Auditor)
	reviewsController := NewReviewsController(cfg.ReviewStore)
	favoritesController := NewFavoritesController(cfg.FavoriteStore)
	usersController := NewUsersController(cfg.UserStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Catalog endpoints
	router.GET("/books", booksController.ListBooks)
	router.GET("/books/available", booksController.ListAvailableBooks)
	router.POST("/books", booksController.CreateBook)
	router.GET("/books/:id", booksController.GetBook)
	router.PUT("/books/:id", booksController.UpdateBook)
	router.DELETE("/books/:id", booksController.DeleteBook)

	// Category endpoints
	router.GET("/categories", categoriesController.ListCategories)
	router.POST("/categories", categoriesController.CreateCategory)
	router.PUT("/categories/:id", categoriesController.UpdateCategory)
	router.DELETE("/categories/:id", categoriesController.DeleteCategory)

	// Loan endpoints
	router.GET("/loans", loansController.ListLoans)
	router.POST("/loans", loansController.OpenLoan)
	router.PUT("/loans/:id/return", loansController.ReturnLoan)

	// Review endpoints
	router.GET("/reviews", reviewsController.ListReviews)
	router.POST("/reviews", reviewsController.CreateReview)
	router.PUT("/reviews/:id", reviewsController.UpdateReview)
	router.DELETE("/reviews/:id", reviewsController.DeleteReview)

	// Favorite endpoints
	router.GET("/book-favorites", favoritesController.ListFavorites)
	router.GET("/book-favorites/:book_id", favoritesController.GetFavorite)
	router.PUT("/book-favorites", favoritesController.SetFavorite)
	router.POST("/book-favorites", favoritesController.AddFavorite)

	// User endpoints
	router.GET("/users", usersController.ListUsers)
	router.GET("/users/me", usersController.Me)
	router.PUT("/users/me", usersController.UpdateMe)

	return router
}
