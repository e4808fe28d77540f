package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/auth"
	"github.com/Shineselorm/learnlab-api/config"
	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/monitoring"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// AccountsHandler serves registration, login, logout and profile
// management.
type AccountsHandler struct {
	Users *repositories.UserRepository
}

func NewAccountsHandler(users *repositories.UserRepository) *AccountsHandler {
	return &AccountsHandler{Users: users}
}

func (h *AccountsHandler) tokenExpiry() time.Duration {
	return time.Duration(config.Cfg.TokenExpiry) * time.Minute
}

// issueToken mints and persists a token for the user.
func (h *AccountsHandler) issueToken(user *models.User) (string, error) {
	expiry := h.tokenExpiry()
	token, jti, err := auth.CreateToken(user.ID, expiry)
	if err != nil {
		return "", err
	}
	if err := h.Users.SaveToken(user.ID, jti, time.Now().Add(expiry)); err != nil {
		return "", err
	}
	return token, nil
}

// POST /api/accounts/register
func (h *AccountsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req serializers.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if taken, err := h.Users.UsernameExists(req.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if taken {
		writeValidationErrors(w, serializers.ValidationErrors{
			"username": "A user with this username already exists.",
		})
		return
	}
	if taken, err := h.Users.EmailExists(req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if taken {
		writeValidationErrors(w, serializers.ValidationErrors{
			"email": "A user with this email already exists.",
		})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("password hashing failed")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		IsActive:     true,
	}
	if err := h.Users.Create(&user); err != nil {
		logrus.WithError(err).Error("failed to create user")
		writeError(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	token, err := h.issueToken(&user)
	if err != nil {
		logrus.WithError(err).Error("failed to issue token")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	monitoring.RegisterSuccess.Inc()
	logrus.WithField("user", user.Username).Info("user registered")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"bio":        user.Bio,
		"token":      token,
		"message":    "User registered successfully!",
	})
}

// POST /api/accounts/login
func (h *AccountsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req serializers.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.Users.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.LoginFailure.WithLabelValues("unknown_user").Inc()
			writeError(w, http.StatusBadRequest, "Invalid credentials. Please try again.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		monitoring.LoginFailure.WithLabelValues("bad_password").Inc()
		writeError(w, http.StatusBadRequest, "Invalid credentials. Please try again.")
		return
	}
	if !user.IsActive {
		monitoring.LoginFailure.WithLabelValues("inactive").Inc()
		writeError(w, http.StatusBadRequest, "User account is disabled.")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to issue token")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	monitoring.LoginSuccess.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
		"message": "Login successful!",
	})
}

// POST /api/accounts/logout
func (h *AccountsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if err := h.Users.RevokeToken(claims.JTI); err != nil {
		logrus.WithError(err).Error("failed to revoke token")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully!"})
}

// profileResponse assembles the profile view for a user as seen by the
// (possibly absent) viewer.
func (h *AccountsHandler) profileResponse(user *models.User, viewer *models.User) (serializers.ProfileResponse, error) {
	followers, err := h.Users.FollowerCount(user.ID)
	if err != nil {
		return serializers.ProfileResponse{}, err
	}
	following, err := h.Users.FollowingCount(user.ID)
	if err != nil {
		return serializers.ProfileResponse{}, err
	}
	isFollowing := false
	if viewer != nil && viewer.ID != user.ID {
		isFollowing, err = h.Users.IsFollowing(viewer.ID, user.ID)
		if err != nil {
			return serializers.ProfileResponse{}, err
		}
	}
	profile, err := h.Users.Profile(user.ID)
	if err != nil {
		return serializers.ProfileResponse{}, err
	}
	return serializers.NewProfileResponse(user, profile, followers, following, isFollowing), nil
}

// GET /api/accounts/profile
func (h *AccountsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	resp, err := h.profileResponse(user, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PUT /api/accounts/profile
func (h *AccountsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req serializers.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		if taken, err := h.Users.EmailExists(*req.Email); err != nil {
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		} else if taken {
			writeValidationErrors(w, serializers.ValidationErrors{
				"email": "A user with this email already exists.",
			})
			return
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if err := h.Users.Save(user); err != nil {
		logrus.WithError(err).Error("failed to update user")
		writeError(w, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	if req.FavoriteGenres != nil || req.ReadingGoalBooks != nil || req.ReadingGoalPages != nil {
		profile, err := h.Users.Profile(user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
		if req.FavoriteGenres != nil {
			profile.FavoriteGenres = *req.FavoriteGenres
		}
		if req.ReadingGoalBooks != nil {
			profile.ReadingGoalBooks = *req.ReadingGoalBooks
		}
		if req.ReadingGoalPages != nil {
			profile.ReadingGoalPages = *req.ReadingGoalPages
		}
		if err := h.Users.SaveProfile(profile); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update profile.")
			return
		}
	}

	resp, err := h.profileResponse(user, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
