package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUnfollow(t *testing.T) {
	server, db := newTestServer(t)
	aliceToken := register(t, server, "alice")
	register(t, server, "bob")
	bobID := userID(t, db, "bob")

	t.Run("follow", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/follow", aliceToken, map[string]interface{}{
			"user_id": bobID,
			"action":  "follow",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "You are now following bob", body["message"])
		assert.Equal(t, true, body["following"])
	})

	t.Run("follow is idempotent", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/follow", aliceToken, map[string]interface{}{
			"user_id": bobID,
			"action":  "follow",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["following"])

		status, body = request(t, server, "GET", "/api/accounts/following", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["results"].([]interface{}), 1)
	})

	t.Run("unfollow", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/accounts/follow", aliceToken, map[string]interface{}{
			"user_id": bobID,
			"action":  "unfollow",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "You have unfollowed bob", body["message"])
		assert.Equal(t, false, body["following"])
	})
}

func TestFollowSelfRejected(t *testing.T) {
	server, db := newTestServer(t)
	token := register(t, server, "narcissus")
	id := userID(t, db, "narcissus")

	status, body := request(t, server, "POST", "/api/accounts/follow", token, map[string]interface{}{
		"user_id": id,
		"action":  "follow",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You cannot follow/unfollow yourself.", body["detail"])
}

func TestFollowUnknownUser(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "alice")

	status, _ := request(t, server, "POST", "/api/accounts/follow", token, map[string]interface{}{
		"user_id": 9999,
		"action":  "follow",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFollowInvalidAction(t *testing.T) {
	server, db := newTestServer(t)
	token := register(t, server, "alice")
	register(t, server, "bob")

	status, body := request(t, server, "POST", "/api/accounts/follow", token, map[string]interface{}{
		"user_id": userID(t, db, "bob"),
		"action":  "poke",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "action")
}

func TestFollowerCounts(t *testing.T) {
	server, db := newTestServer(t)
	aliceToken := register(t, server, "alice")
	bobToken := register(t, server, "bob")
	register(t, server, "carol")
	carolID := userID(t, db, "carol")

	for _, token := range []string{aliceToken, bobToken} {
		status, _ := request(t, server, "POST", "/api/accounts/follow", token, map[string]interface{}{
			"user_id": carolID,
			"action":  "follow",
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := request(t, server, "GET", fmt.Sprintf("/api/accounts/users/%d", carolID), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["follower_count"])
	assert.Equal(t, true, body["is_following"])
}

func TestListUsers(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "alice")
	register(t, server, "bob")
	register(t, server, "carol")

	status, body := request(t, server, "GET", "/api/accounts/users", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])
	assert.Len(t, body["results"].([]interface{}), 3)
}
