package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/monitoring"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// CommentsHandler serves post comments.
type CommentsHandler struct {
	Posts         *repositories.PostRepository
	Notifications *repositories.NotificationRepository
}

func NewCommentsHandler(posts *repositories.PostRepository, notifications *repositories.NotificationRepository) *CommentsHandler {
	return &CommentsHandler{Posts: posts, Notifications: notifications}
}

// GET /api/posts/{postID}/comments lists oldest first.
func (h *CommentsHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "postID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid post ID.")
		return
	}
	if _, err := h.Posts.Get(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	comments, err := h.Posts.CommentsByPost(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results := make([]serializers.CommentResponse, len(comments))
	for i := range comments {
		results[i] = serializers.NewCommentResponse(&comments[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// POST /api/posts/{postID}/comments  (auth required)
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "postID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid post ID.")
		return
	}
	post, err := h.Posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	var req serializers.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Content:  req.Content,
	}
	if err := h.Posts.CreateComment(&comment); err != nil {
		logrus.WithError(err).Error("failed to create comment")
		writeError(w, http.StatusInternalServerError, "Failed to create comment.")
		return
	}

	if err := h.Notifications.Notify(post.AuthorID, user.ID, models.VerbCommented, models.TargetComment, comment.ID); err != nil {
		logrus.WithError(err).Error("failed to create comment notification")
	} else if post.AuthorID != user.ID {
		monitoring.NotificationsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, serializers.NewCommentResponse(&comment))
}

// getOwnedComment fetches a comment and enforces authorship.
func (h *CommentsHandler) getOwnedComment(w http.ResponseWriter, r *http.Request) *models.Comment {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "commentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid comment ID.")
		return nil
	}
	comment, err := h.Posts.GetComment(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found.")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil
	}
	if comment.AuthorID != user.ID {
		writeError(w, http.StatusForbidden, "You can only modify your own comments.")
		return nil
	}
	return comment
}

// PUT /api/comments/{commentID}  (author only)
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	comment := h.getOwnedComment(w, r)
	if comment == nil {
		return
	}

	var req serializers.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	comment.Content = req.Content
	if err := h.Posts.SaveComment(comment); err != nil {
		logrus.WithError(err).Error("failed to update comment")
		writeError(w, http.StatusInternalServerError, "Failed to update comment.")
		return
	}
	writeJSON(w, http.StatusOK, serializers.NewCommentResponse(comment))
}

// DELETE /api/comments/{commentID}  (author only)
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comment := h.getOwnedComment(w, r)
	if comment == nil {
		return
	}
	if err := h.Posts.DeleteComment(comment); err != nil {
		logrus.WithError(err).Error("failed to delete comment")
		writeError(w, http.StatusInternalServerError, "Failed to delete comment.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
