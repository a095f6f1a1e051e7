package auth

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	service := NewService(db.DB, config.Auth{BcryptCost: bcrypt.MinCost})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_Signup(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.Token)

	// The password is stored hashed, never verbatim
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestService_Signup_Validation(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Signup("", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = service.Signup("Alice", "", "password123")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = service.Signup("Alice", "alice@example.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = service.Signup("Alice", "not-an-email", "password123")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = service.Signup("Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = service.Signup("Imposter", "alice@example.com", "password456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Signin(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, err := service.Signin("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.Token, user.Token)

	_, err = service.Signin("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = service.Signin("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ResolveToken(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, err := service.ResolveToken(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = service.ResolveToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ResolveToken("no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_UpdateProfile(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	updated, err := service.UpdateProfile(created.ID, "Alice Carter", "alice.c@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice Carter", updated.Name)
	assert.Equal(t, "alice.c@example.com", updated.Email)

	// The token survives a profile edit
	reloaded, err := service.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Token, reloaded.Token)

	_, err = service.UpdateProfile(created.ID, "", "alice@example.com")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = service.UpdateProfile(created.ID, "Alice", "broken email")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = service.UpdateProfile(99999, "Ghost", "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_ListUsers(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Signup("Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = service.Signup("Bob", "bob@example.com", "password123")
	require.NoError(t, err)

	users, err := service.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)
}
