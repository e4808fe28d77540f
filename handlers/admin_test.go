package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shineselorm/learnlab-api/models"
)

func TestAdminEndpointsRequireStaff(t *testing.T) {
	server, _ := newTestServer(t)
	token := register(t, server, "civilian")

	for _, path := range []string{"/api/admin/groups/assign", "/api/admin/groups/remove"} {
		status, _ := request(t, server, "POST", path, token, map[string]interface{}{
			"user_id": 1,
			"group":   models.GroupViewers,
		})
		assert.Equal(t, http.StatusForbidden, status, path)
	}
	status, _ := request(t, server, "GET", "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminGroupAssignment(t *testing.T) {
	server, db := newTestServer(t)
	staffToken := register(t, server, "staff")
	makeStaff(t, db, "staff")
	register(t, server, "member")
	memberID := userID(t, db, "member")

	// Staff token issued before the flag flip still works because the
	// user row is loaded fresh on every request.
	status, body := request(t, server, "POST", "/api/admin/groups/assign", staffToken, map[string]interface{}{
		"user_id": memberID,
		"group":   models.GroupEditors,
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Contains(t, user["groups"].([]interface{}), models.GroupEditors)

	t.Run("member gains the group's permissions", func(t *testing.T) {
		memberToken := func() string {
			status, body := request(t, server, "POST", "/api/accounts/login", "", map[string]interface{}{
				"username": "member",
				"password": "password123",
			})
			require.Equal(t, http.StatusOK, status)
			return body["token"].(string)
		}()
		status, _ := request(t, server, "GET", "/api/books", memberToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("remove group", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/admin/groups/remove", staffToken, map[string]interface{}{
			"user_id": memberID,
			"group":   models.GroupEditors,
		})
		require.Equal(t, http.StatusOK, status)
		user := body["user"].(map[string]interface{})
		assert.NotContains(t, user["groups"], models.GroupEditors)
	})

	t.Run("unknown group rejected", func(t *testing.T) {
		status, body := request(t, server, "POST", "/api/admin/groups/assign", staffToken, map[string]interface{}{
			"user_id": memberID,
			"group":   "wizards",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		errs := body["errors"].(map[string]interface{})
		assert.Contains(t, errs, "group")
	})
}

func TestStaffBypassesPermissionChecks(t *testing.T) {
	server, db := newTestServer(t)
	staffToken := register(t, server, "staff")
	makeStaff(t, db, "staff")

	status, _ := request(t, server, "GET", "/api/books", staffToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminUserListing(t *testing.T) {
	server, db := newTestServer(t)
	staffToken := register(t, server, "staff")
	makeStaff(t, db, "staff")
	register(t, server, "someone")
	addToGroup(t, db, "someone", models.GroupViewers)

	status, body := request(t, server, "GET", "/api/admin/users", staffToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	for _, raw := range body["results"].([]interface{}) {
		user := raw.(map[string]interface{})
		if user["username"] == "someone" {
			assert.Contains(t, user["groups"].([]interface{}), models.GroupViewers)
			assert.Equal(t, false, user["is_staff"])
		}
	}
}
