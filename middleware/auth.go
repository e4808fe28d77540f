package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Shineselorm/learnlab-api/auth"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
)

type contextKey string

const (
	userKey   contextKey = "user"
	claimsKey contextKey = "claims"
)

// Auth authenticates requests against issued tokens.
type Auth struct {
	Users *repositories.UserRepository
}

func NewAuth(users *repositories.UserRepository) *Auth {
	return &Auth{Users: users}
}

// bearerToken pulls the credential out of the Authorization header.
// Both "Bearer <token>" and "Token <token>" are accepted.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	for _, scheme := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(header, scheme))
		}
	}
	return ""
}

// resolve verifies the token, checks it has not been revoked, and loads
// the user.
func (a *Auth) resolve(r *http.Request) (*models.User, *auth.TokenClaims, error) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		return nil, nil, errNoCredentials
	}

	claims, err := auth.VerifyToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	valid, err := a.Users.TokenValid(claims.JTI)
	if err != nil {
		return nil, nil, err
	}
	if !valid {
		return nil, nil, errRevoked
	}

	user, err := a.Users.FindByID(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, errInactive
	}
	return user, claims, nil
}

var (
	errNoCredentials = authError("authentication credentials were not provided")
	errRevoked       = authError("token has been revoked")
	errInactive      = authError("user account is disabled")
)

type authError string

func (e authError) Error() string { return string(e) }

// RequireAuth rejects the request with 401 unless it carries a valid,
// unrevoked token. The user is attached to the request context.
func (a *Auth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, claims, err := a.resolve(r)
		if err != nil {
			logrus.WithError(err).Debug("authentication failed")
			http.Error(w, `{"detail": "Authentication credentials were not provided or are invalid."}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches the user when a valid token is present and
// passes the request through either way. Used on public reads that
// personalize their response for logged-in callers.
func (a *Auth) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, claims, err := a.resolve(r); err == nil {
			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, claimsKey, claims)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	}
}

// CurrentUser returns the authenticated user attached by the
// middleware, if any.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok
}

// CurrentClaims returns the verified token claims for the request.
func CurrentClaims(r *http.Request) (*auth.TokenClaims, bool) {
	claims, ok := r.Context().Value(claimsKey).(*auth.TokenClaims)
	return claims, ok
}
