package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// AdminHandler serves the staff-only user and group management surface.
type AdminHandler struct {
	Users *repositories.UserRepository
}

func NewAdminHandler(users *repositories.UserRepository) *AdminHandler {
	return &AdminHandler{Users: users}
}

type adminUser struct {
	serializers.UserSummary
	Email    string   `json:"email"`
	IsActive bool     `json:"is_active"`
	IsStaff  bool     `json:"is_staff"`
	Groups   []string `json:"groups"`
}

func (h *AdminHandler) adminView(user *models.User) (*adminUser, error) {
	followers, err := h.Users.FollowerCount(user.ID)
	if err != nil {
		return nil, err
	}
	groups, err := h.Users.GroupsOf(user)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return &adminUser{
		UserSummary: serializers.NewUserSummary(user, followers),
		Email:       user.Email,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		Groups:      names,
	}, nil
}

// GET /api/admin/users  (staff only)
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := pagination(r)
	users, total, err := h.Users.List(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results := make([]adminUser, len(users))
	for i := range users {
		view, err := h.adminView(&users[i])
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error.")
			return
		}
		results[i] = *view
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PageSize: limit, Results: results})
}

// groupMembership resolves the target user and group named by the
// request body.
func (h *AdminHandler) groupMembership(w http.ResponseWriter, r *http.Request) (*models.User, *models.Group) {
	var req serializers.GroupMembershipRequest
	if !decodeJSON(w, r, &req) {
		return nil, nil
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return nil, nil
	}

	user, err := h.Users.FindByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return nil, nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil, nil
	}
	group, err := h.Users.FindGroup(req.Group)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeValidationErrors(w, serializers.ValidationErrors{"group": "Group does not exist."})
			return nil, nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil, nil
	}
	return user, group
}

// POST /api/admin/groups/assign  (staff only)
func (h *AdminHandler) AssignGroup(w http.ResponseWriter, r *http.Request) {
	user, group := h.groupMembership(w, r)
	if user == nil {
		return
	}
	if err := h.Users.AssignGroup(user, group); err != nil {
		logrus.WithError(err).Error("failed to assign group")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	logrus.WithFields(logrus.Fields{"user": user.Username, "group": group.Name}).Info("group assigned")

	view, err := h.adminView(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Added %s to %s.", user.Username, group.Name),
		"user":    view,
	})
}

// POST /api/admin/groups/remove  (staff only)
func (h *AdminHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	user, group := h.groupMembership(w, r)
	if user == nil {
		return
	}
	if err := h.Users.RemoveGroup(user, group); err != nil {
		logrus.WithError(err).Error("failed to remove group")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	logrus.WithFields(logrus.Fields{"user": user.Username, "group": group.Name}).Info("group removed")

	view, err := h.adminView(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Removed %s from %s.", user.Username, group.Name),
		"user":    view,
	})
}
