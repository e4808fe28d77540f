package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/config"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/routes"
)

// newTestServer brings up the full router against a throwaway sqlite
// database.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	config.Cfg = config.Config{
		ServerPort:      "0",
		SecretKey:       "test-secret-key",
		TokenExpiry:     60,
		LogLevel:        "error",
		AllowedOrigins:  "http://localhost:3000",
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}

	db, err := config.Open("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	server := httptest.NewServer(routes.NewRouter(db))
	t.Cleanup(server.Close)
	return server, db
}

// request performs a JSON request and decodes the response body into a
// generic map.
func request(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp.StatusCode, decoded
}

// register creates a user through the API and returns their token.
func register(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()

	status, body := request(t, server, "POST", "/api/accounts/register", "", map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"password_confirm": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := body["token"].(string)
	require.True(t, ok, "register response must include a token")
	return token
}

// userID looks up a registered user's ID.
func userID(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()

	users := repositories.NewUserRepository(db)
	user, err := users.FindByUsername(username)
	require.NoError(t, err)
	return user.ID
}

// addToGroup puts the user into a seeded permission group.
func addToGroup(t *testing.T, db *gorm.DB, username, group string) {
	t.Helper()

	users := repositories.NewUserRepository(db)
	user, err := users.FindByUsername(username)
	require.NoError(t, err)
	g, err := users.FindGroup(group)
	require.NoError(t, err)
	require.NoError(t, users.AssignGroup(user, g))
}

// makeStaff flips the staff flag directly.
func makeStaff(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	require.NoError(t, db.Table("users").Where("username = ?", username).Update("is_staff", true).Error)
}

// createAuthor inserts an author and returns its ID.
func createAuthor(t *testing.T, server *httptest.Server, token, name string) uint {
	t.Helper()

	status, body := request(t, server, "POST", "/api/authors", token, map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, status)
	return uint(body["id"].(float64))
}

// createBook inserts a book through the API and returns its ID. The
// token must carry can_create_book.
func createBook(t *testing.T, server *httptest.Server, token string, authorID uint, title, isbn string) uint {
	t.Helper()

	status, body := request(t, server, "POST", "/api/books", token, map[string]interface{}{
		"title":            title,
		"isbn":             isbn,
		"publication_year": 2020,
		"author_id":        authorID,
	})
	require.Equal(t, http.StatusCreated, status, fmt.Sprintf("create book failed: %v", body))
	return uint(body["id"].(float64))
}

// createPost inserts a post and returns its ID.
func createPost(t *testing.T, server *httptest.Server, token, title string, tags []string) uint {
	t.Helper()

	status, body := request(t, server, "POST", "/api/posts", token, map[string]interface{}{
		"title":   title,
		"content": "Some content for " + title,
		"tags":    tags,
	})
	require.Equal(t, http.StatusCreated, status)
	return uint(body["id"].(float64))
}
