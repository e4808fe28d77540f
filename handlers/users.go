package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/monitoring"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// UsersHandler serves user listing, user detail and the follow graph.
type UsersHandler struct {
	Users         *repositories.UserRepository
	Notifications *repositories.NotificationRepository
}

func NewUsersHandler(users *repositories.UserRepository, notifications *repositories.NotificationRepository) *UsersHandler {
	return &UsersHandler{Users: users, Notifications: notifications}
}

func (h *UsersHandler) summaries(users []models.User) ([]serializers.UserSummary, error) {
	out := make([]serializers.UserSummary, len(users))
	for i := range users {
		count, err := h.Users.FollowerCount(users[i].ID)
		if err != nil {
			return nil, err
		}
		out[i] = serializers.NewUserSummary(&users[i], count)
	}
	return out, nil
}

// GET /api/accounts/users
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := pagination(r)
	users, total, err := h.Users.List(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.summaries(users)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PageSize: limit, Results: results})
}

// GET /api/accounts/users/{userID}
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid user ID.")
		return
	}
	user, err := h.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	viewer, _ := middleware.CurrentUser(r)
	followers, err := h.Users.FollowerCount(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	following, err := h.Users.FollowingCount(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	isFollowing := false
	if viewer != nil {
		isFollowing, err = h.Users.IsFollowing(viewer.ID, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
	}
	writeJSON(w, http.StatusOK, serializers.NewProfileResponse(user, nil, followers, following, isFollowing))
}

// POST /api/accounts/follow
func (h *UsersHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)

	var req serializers.FollowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	if req.UserID == actor.ID {
		writeError(w, http.StatusBadRequest, "You cannot follow/unfollow yourself.")
		return
	}

	target, err := h.Users.FindByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	var message string
	if req.Action == serializers.ActionFollow {
		alreadyFollowing, err := h.Users.IsFollowing(actor.ID, target.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
		if err := h.Users.Follow(actor.ID, target.ID); err != nil {
			logrus.WithError(err).Error("follow failed")
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
		// Only the first follow notifies; repeats stay silent.
		if !alreadyFollowing {
			if err := h.Notifications.Notify(target.ID, actor.ID, models.VerbFollowed, models.TargetUser, actor.ID); err != nil {
				logrus.WithError(err).Error("failed to create follow notification")
			} else {
				monitoring.NotificationsCreated.Inc()
			}
		}
		message = fmt.Sprintf("You are now following %s", target.Username)
	} else {
		if err := h.Users.Unfollow(actor.ID, target.ID); err != nil {
			logrus.WithError(err).Error("unfollow failed")
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
		message = fmt.Sprintf("You have unfollowed %s", target.Username)
	}
	monitoring.FollowActions.WithLabelValues(req.Action).Inc()

	following, err := h.Users.IsFollowing(actor.ID, target.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   message,
		"following": following,
	})
}

// GET /api/accounts/followers
func (h *UsersHandler) Followers(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	followers, err := h.Users.Followers(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.summaries(followers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// GET /api/accounts/following
func (h *UsersHandler) Following(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	following, err := h.Users.Following(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.summaries(following)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
