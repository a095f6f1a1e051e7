package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, func()) {
	gin.SetMode(gin.TestMode)

	service, cleanup := setupTestService(t)
	limiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
	})

	router := gin.New()
	NewController(service, limiter).RegisterRoutes(router)
	return router, cleanup
}

func TestController_Signup(t *testing.T) {
	t.Run("creates an account and returns the token", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()

		body := `{"name": "Alice", "email": "alice@example.com", "password": "password123"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response["token"])

		// The password hash must never leak into the response
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()

		body := `{"name": "Alice", "email": "alice@example.com", "password": "password123"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()

		for _, body := range []string{
			`{}`,
			`{"name": "Alice", "email": "not-an-email", "password": "password123"}`,
			`{"name": "Alice", "email": "alice@example.com", "password": "short"}`,
		} {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		}
	})
}

func TestController_Signin(t *testing.T) {
	signup := func(t *testing.T, router *gin.Engine) {
		body := `{"name": "Alice", "email": "alice@example.com", "password": "password123"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("returns the token for valid credentials", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()
		signup(t, router)

		body := `{"email": "alice@example.com", "password": "password123"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response["token"])
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()
		signup(t, router)

		body := `{"email": "alice@example.com", "password": "wrong-password"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("locks out after repeated failures", func(t *testing.T) {
		router, cleanup := setupAuthRouter(t)
		defer cleanup()
		signup(t, router)

		body := `{"email": "alice@example.com", "password": "wrong-password"}`
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}

		// Even the right password is refused while locked out
		body = `{"email": "alice@example.com", "password": "password123"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})
}
