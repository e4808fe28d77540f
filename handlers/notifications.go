package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// NotificationsHandler serves the recipient-scoped notification inbox.
type NotificationsHandler struct {
	Notifications *repositories.NotificationRepository
}

func NewNotificationsHandler(notifications *repositories.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{Notifications: notifications}
}

func notificationResults(notifications []models.Notification) []serializers.NotificationResponse {
	out := make([]serializers.NotificationResponse, len(notifications))
	for i := range notifications {
		out[i] = serializers.NewNotificationResponse(&notifications[i])
	}
	return out
}

// GET /api/notifications lists newest first; ?read=true|false filters.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var read *bool
	switch r.URL.Query().Get("read") {
	case "true":
		v := true
		read = &v
	case "false":
		v := false
		read = &v
	}

	notifications, err := h.Notifications.ListByRecipient(user.ID, read)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	unread, err := h.Notifications.UnreadCount(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unread_count": unread,
		"results":      notificationResults(notifications),
	})
}

// GET /api/notifications/unread
func (h *NotificationsHandler) Unread(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	unread := false
	notifications, err := h.Notifications.ListByRecipient(user.ID, &unread)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unread_count": len(notifications),
		"results":      notificationResults(notifications),
	})
}

// getOwn fetches a notification and enforces that it belongs to the
// caller.
func (h *NotificationsHandler) getOwn(w http.ResponseWriter, r *http.Request) *models.Notification {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "notificationID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid notification ID.")
		return nil
	}
	notification, err := h.Notifications.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found.")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil
	}
	if notification.RecipientID != user.ID {
		writeError(w, http.StatusNotFound, "Notification not found.")
		return nil
	}
	return notification
}

// POST /api/notifications/{notificationID}/read. Idempotent.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notification := h.getOwn(w, r)
	if notification == nil {
		return
	}
	if err := h.Notifications.MarkRead(notification); err != nil {
		logrus.WithError(err).Error("failed to mark notification read")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, serializers.NewNotificationResponse(notification))
}

// POST /api/notifications/read-all
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	count, err := h.Notifications.MarkAllRead(user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to mark notifications read")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "All notifications marked as read.",
		"marked_read": count,
	})
}

// DELETE /api/notifications/{notificationID}
func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	notification := h.getOwn(w, r)
	if notification == nil {
		return
	}
	if err := h.Notifications.Delete(notification); err != nil {
		logrus.WithError(err).Error("failed to delete notification")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
