package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("password mismatch", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/register", "", map[string]interface{}{
			"username":         "mismatch",
			"email":            "mismatch@example.com",
			"password":         "password123",
			"password_confirm": "different456",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "password")
	})

	t.Run("short password", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/register", "", map[string]interface{}{
			"username":         "shortpw",
			"email":            "shortpw@example.com",
			"password":         "short",
			"password_confirm": "short",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "password")
	})

	t.Run("invalid email", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/register", "", map[string]interface{}{
			"username":         "bademail",
			"email":            "not-an-email",
			"password":         "password123",
			"password_confirm": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "email")
	})

	t.Run("duplicate username", func(t *testing.T) {
		register(t, server, "taken")
		status, body := request(t, server, "POST", "/api/accounts/register", "", map[string]interface{}{
			"username":         "taken",
			"email":            "other@example.com",
			"password":         "password123",
			"password_confirm": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "username")
	})
}

func TestLogin(t *testing.T) {
	server, _ := newTestServer(t)
	register(t, server, "alice")

	t.Run("success", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/login", "", map[string]interface{}{
			"username": "alice",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, "Login successful!", body["message"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/login", "", map[string]interface{}{
			"username": "alice",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid credentials. Please try again.", body["detail"])
	})

	t.Run("unknown user", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/login", "", map[string]interface{}{
			"username": "nobody",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid credentials. Please try again.", body["detail"])
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "bob")

	status, _ := request(t, server, "GET", "/api/accounts/profile", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = request(t, server, "POST", "/api/accounts/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	// The JWT is still well-formed but its jti is gone.
	status, _ = request(t, server, "GET", "/api/accounts/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProfileUpdate(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "carol")

	status, body := request(t, server, "PUT", "/api/accounts/profile", token, map[string]interface{}{
		"first_name":         "Carol",
		"last_name":          "Jones",
		"bio":                "Avid reader",
		"favorite_genres":    "mystery, sci-fi",
		"reading_goal_books": 24,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Carol", body["first_name"])
	assert.Equal(t, "Avid reader", body["bio"])
	assert.Equal(t, "mystery, sci-fi", body["favorite_genres"])
	assert.Equal(t, float64(24), body["reading_goal_books"])

	// Partial updates leave the other fields alone.
	status, body = request(t, server, "PUT", "/api/accounts/profile", token, map[string]interface{}{
		"bio": "Still reading",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Carol", body["first_name"])
	assert.Equal(t, "Still reading", body["bio"])
}

func TestProfileEscapesHTML(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "mallory")

	status, body := request(t, server, "PUT", "/api/accounts/profile", token, map[string]interface{}{
		"bio": "<script>alert('xss')</script>",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body["bio"], "<script>")
	assert.Contains(t, body["bio"], "&lt;script&gt;")
}

func TestProfileRequiresAuth(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := request(t, server, "GET", "/api/accounts/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
