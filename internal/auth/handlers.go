package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Controller exposes the signup/signin endpoints.
type Controller struct {
	service *Service
	limiter *RateLimiter
}

// NewController creates an auth controller.
func NewController(service *Service, limiter *RateLimiter) *Controller {
	return &Controller{service: service, limiter: limiter}
}

// RegisterRoutes mounts the auth endpoints on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth/signup", ac.Signup)
	router.POST("/auth/signin", ac.Signin)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a user account and returns it together with the API token.
// POST /auth/signup
func (ac *Controller) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	user, err := ac.service.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrEmailInvalid), errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": user.Token,
	})
}

// Signin validates credentials and returns the API token.
// POST /auth/signin
func (ac *Controller) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ip := c.ClientIP()
	if allowed, retryAfter := ac.limiter.Allow(ip, req.Email); !allowed {
		c.Header("Retry-After", retryAfter.Round(time.Second).String())
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts, try again later"})
		return
	}

	user, err := ac.service.Signin(req.Email, req.Password)
	if err != nil {
		ac.limiter.RecordFailure(ip, req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	ac.limiter.RecordSuccess(ip, req.Email)
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": user.Token,
	})
}
