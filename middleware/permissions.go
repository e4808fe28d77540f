package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// RequirePermission authenticates the request and then rejects it with
// 403 unless one of the user's groups grants the permission code.
// Staff accounts always pass.
func (a *Auth) RequirePermission(code string, next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)

		allowed, err := a.Users.HasPermission(user, code)
		if err != nil {
			logrus.WithError(err).Error("permission lookup failed")
			http.Error(w, `{"detail": "Internal server error."}`, http.StatusInternalServerError)
			return
		}
		if !allowed {
			logrus.WithFields(logrus.Fields{
				"user":       user.Username,
				"permission": code,
			}).Warn("permission denied")
			http.Error(w, `{"detail": "You do not have permission to perform this action."}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff authenticates and restricts the endpoint to staff users.
func (a *Auth) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, _ := CurrentUser(r)
		if !user.IsStaff {
			http.Error(w, `{"detail": "You do not have permission to perform this action."}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
