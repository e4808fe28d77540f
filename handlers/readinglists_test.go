package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shineselorm/learnlab-api/models"
)

func TestReadingListCRUD(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "alice")

	status, body := request(t, server, "POST", "/api/reading-lists", token, map[string]interface{}{
		"name":        "Summer Reading",
		"description": "Beach books",
		"is_public":   false,
	})
	require.Equal(t, http.StatusCreated, status)
	listID := uint(body["id"].(float64))
	assert.NotEmpty(t, body["share_slug"])

	t.Run("duplicate name rejected", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/reading-lists", token, map[string]interface{}{
			"name": "Summer Reading",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "name")
	})

	t.Run("update", func(t *testing.T) {
		status, body := request(t, server, "PUT", fmt.Sprintf("/api/reading-lists/%d", listID), token, map[string]interface{}{
			"name":        "Summer Reading 2026",
			"description": "Updated",
			"is_public":   true,
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Summer Reading 2026", body["name"])
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := request(t, server, "DELETE", fmt.Sprintf("/api/reading-lists/%d", listID), token, nil)
		require.Equal(t, http.StatusNoContent, status)

		status, _ = request(t, server, "GET", fmt.Sprintf("/api/reading-lists/%d", listID), token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestReadingListPrivacy(t *testing.T) {
	server, _ := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")

	status, body := request(t, server, "POST", "/api/reading-lists", aliceToken, map[string]interface{}{
		"name":      "Private Stash",
		"is_public": false,
	})
	require.Equal(t, http.StatusCreated, status)
	privateID := uint(body["id"].(float64))
	privateSlug := body["share_slug"].(string)

	status, body = request(t, server, "POST", "/api/reading-lists", aliceToken, map[string]interface{}{
		"name":      "Open Shelf",
		"is_public": true,
	})
	require.Equal(t, http.StatusCreated, status)
	publicID := uint(body["id"].(float64))
	publicSlug := body["share_slug"].(string)

	t.Run("owner sees private list", func(t *testing.T) {
		status, _ := request(t, server, "GET", fmt.Sprintf("/api/reading-lists/%d", privateID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("others cannot see private list", func(t *testing.T) {
		status, _ := request(t, server, "GET", fmt.Sprintf("/api/reading-lists/%d", privateID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("others can see public list", func(t *testing.T) {
		status, _ := request(t, server, "GET", fmt.Sprintf("/api/reading-lists/%d", publicID), bobToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("public listing excludes own lists", func(t *testing.T) {
		status, body := request(t, server, "GET", "/api/reading-lists?public=true", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		results := body["results"].([]interface{})
		require.Len(t, results, 1)
		list := results[0].(map[string]interface{})
		assert.Equal(t, "Open Shelf", list["name"])
	})

	t.Run("share slug works without auth", func(t *testing.T) {
		status, body := request(t, server, "GET", "/api/reading-lists/shared/"+publicSlug, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Open Shelf", body["name"])
	})

	t.Run("private slug stays private", func(t *testing.T) {
		status, _ := request(t, server, "GET", "/api/reading-lists/shared/"+privateSlug, "", nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("only owner can modify", func(t *testing.T) {
		status, _ := request(t, server, "PUT", fmt.Sprintf("/api/reading-lists/%d", publicID), bobToken, map[string]interface{}{
			"name": "Stolen Shelf",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestReadingListBooks(t *testing.T) {
	server, db := newTestServer(t)
	token := register(t, server, "alice")
	addToGroup(t, db, "alice", models.GroupEditors)

	authorID := createAuthor(t, server, token, "Ted Chiang")
	bookID := createBook(t, server, token, authorID, "Exhalation", "9781101947883")

	status, body := request(t, server, "POST", "/api/reading-lists", token, map[string]interface{}{
		"name": "To Read",
	})
	require.Equal(t, http.StatusCreated, status)
	listID := uint(body["id"].(float64))

	t.Run("add book", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/reading-lists/%d/books", listID), token, map[string]interface{}{
			"book_id": bookID,
			"action":  "add",
		})
		require.Equal(t, http.StatusOK, status)
		books := body["books"].([]interface{})
		require.Len(t, books, 1)
	})

	t.Run("remove book", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/reading-lists/%d/books", listID), token, map[string]interface{}{
			"book_id": bookID,
			"action":  "remove",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["books"])
	})

	t.Run("unknown book rejected", func(t *testing.T) {
		status, _ := request(t, server, "POST", fmt.Sprintf("/api/reading-lists/%d/books", listID), token, map[string]interface{}{
			"book_id": 9999,
			"action":  "add",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})
}
