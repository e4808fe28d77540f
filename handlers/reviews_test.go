package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shineselorm/learnlab-api/models"
)

func reviewSetup(t *testing.T) (*httptest.Server, uint) {
	t.Helper()

	server, db := newTestServer(t)
	editorToken := register(t, server, "editor")
	addToGroup(t, db, "editor", models.GroupEditors)
	authorID := createAuthor(t, server, editorToken, "Ann Leckie")
	bookID := createBook(t, server, editorToken, authorID, "Ancillary Justice", "9780316246620")
	return server, bookID
}

func TestReviewUpsert(t *testing.T) {
	server, bookID := reviewSetup(t)
	token := register(t, server, "reader")

	t.Run("first submission creates", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), token, map[string]interface{}{
			"rating":      5,
			"review_text": "A remarkable debut novel.",
		})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Review added successfully!", body["message"])
	})

	t.Run("second submission updates", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), token, map[string]interface{}{
			"rating":      4,
			"review_text": "Still great on a second read.",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Review updated successfully!", body["message"])

		status, body = request(t, server, "GET", fmt.Sprintf("/api/books/%d/reviews", bookID), "", nil)
		require.Equal(t, http.StatusOK, status)
		results := body["results"].([]interface{})
		require.Len(t, results, 1)
		review := results[0].(map[string]interface{})
		assert.Equal(t, float64(4), review["rating"])
	})
}

func TestReviewValidation(t *testing.T) {
	server, bookID := reviewSetup(t)
	token := register(t, server, "reader")

	t.Run("rating out of range", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), token, map[string]interface{}{
			"rating":      6,
			"review_text": "Off the scale, literally.",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "rating")
	})

	t.Run("review text too short", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), token, map[string]interface{}{
			"rating":      3,
			"review_text": "meh",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "review_text")
	})

	t.Run("unknown book", func(t *testing.T) {
		status, _ := request(t, server, "POST", "/api/books/9999/reviews", token, map[string]interface{}{
			"rating":      3,
			"review_text": "Reviewing the void here.",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestReviewOwnership(t *testing.T) {
	server, bookID := reviewSetup(t)
	readerToken := register(t, server, "reader")
	otherToken := register(t, server, "other")

	status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), readerToken, map[string]interface{}{
		"rating":      5,
		"review_text": "Loved every chapter of it.",
	})
	require.Equal(t, http.StatusCreated, status)
	review := body["review"].(map[string]interface{})
	reviewID := uint(review["id"].(float64))

	t.Run("others cannot edit", func(t *testing.T) {
		status, _ := request(t, server, "PUT", fmt.Sprintf("/api/reviews/%d", reviewID), otherToken, map[string]interface{}{
			"rating":      1,
			"review_text": "Sabotaging this review now.",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("others cannot delete", func(t *testing.T) {
		status, _ := request(t, server, "DELETE", fmt.Sprintf("/api/reviews/%d", reviewID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("reviewer can delete", func(t *testing.T) {
		status, _ := request(t, server, "DELETE", fmt.Sprintf("/api/reviews/%d", reviewID), readerToken, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})

	t.Run("can review again after delete", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/books/%d/reviews", bookID), readerToken, map[string]interface{}{
			"rating":      4,
			"review_text": "Back for a fresh take on it.",
		})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Review added successfully!", body["message"])
	})
}
