package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsOnEngagement(t *testing.T) {
	server, db := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")
	postID := createPost(t, server, aliceToken, "Notify me", nil)

	// Bob likes, comments and follows; Alice should see three
	// notifications.
	status, _ := request(t, server, "POST", fmt.Sprintf("/api/posts/%d/like", postID), bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = request(t, server, "POST", fmt.Sprintf("/api/posts/%d/comments", postID), bobToken, map[string]interface{}{
		"content": "Nice one",
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = request(t, server, "POST", "/api/accounts/follow", bobToken, map[string]interface{}{
		"user_id": userID(t, db, "alice"),
		"action":  "follow",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := request(t, server, "GET", "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["unread_count"])

	results := body["results"].([]interface{})
	require.Len(t, results, 3)
	verbs := make([]string, len(results))
	for i, raw := range results {
		n := raw.(map[string]interface{})
		verbs[i] = n["verb"].(string)
		actor := n["actor"].(map[string]interface{})
		assert.Equal(t, "bob", actor["username"])
	}
	assert.ElementsMatch(t, []string{
		"liked your post",
		"commented on your post",
		"started following you",
	}, verbs)
}

func TestNoSelfNotification(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "alice")
	postID := createPost(t, server, token, "Self like", nil)

	status, _ := request(t, server, "POST", fmt.Sprintf("/api/posts/%d/like", postID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := request(t, server, "GET", "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["unread_count"])
	assert.Empty(t, body["results"])
}

func TestRepeatLikeNotifiesOnce(t *testing.T) {
	server, _ := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")
	postID := createPost(t, server, aliceToken, "Once", nil)

	for i := 0; i < 3; i++ {
		status, _ := request(t, server, "POST", fmt.Sprintf("/api/posts/%d/like", postID), bobToken, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := request(t, server, "GET", "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["unread_count"])
}

func TestMarkNotificationsRead(t *testing.T) {
	server, db := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")
	carolToken := register(t, server, "carol")

	aliceID := userID(t, db, "alice")
	for _, token := range []string{bobToken, carolToken} {
		status, _ := request(t, server, "POST", "/api/accounts/follow", token, map[string]interface{}{
			"user_id": aliceID,
			"action":  "follow",
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := request(t, server, "GET", "/api/notifications/unread", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), body["unread_count"])
	first := body["results"].([]interface{})[0].(map[string]interface{})
	firstID := uint(first["id"].(float64))

	t.Run("mark one", func(t *testing.T) {
		status, body := request(t, server, "POST", fmt.Sprintf("/api/notifications/%d/read", firstID), aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["read"])

		status, body = request(t, server, "GET", "/api/notifications?read=false", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["results"].([]interface{}), 1)
	})

	t.Run("mark all", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/notifications/read-all", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["marked_read"])

		status, body = request(t, server, "GET", "/api/notifications", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["unread_count"])
	})

	t.Run("foreign notification hidden", func(t *testing.T) {
		status, _ := request(t, server, "POST", fmt.Sprintf("/api/notifications/%d/read", firstID), bobToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestDeleteNotification(t *testing.T) {
	server, db := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")

	status, _ := request(t, server, "POST", "/api/accounts/follow", bobToken, map[string]interface{}{
		"user_id": userID(t, db, "alice"),
		"action":  "follow",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := request(t, server, "GET", "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	n := body["results"].([]interface{})[0].(map[string]interface{})
	id := uint(n["id"].(float64))

	status, _ = request(t, server, "DELETE", fmt.Sprintf("/api/notifications/%d", id), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = request(t, server, "GET", "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["results"])
}
