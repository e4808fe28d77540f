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

// PostsHandler serves posts, the personalized feed and likes.
type PostsHandler struct {
	Posts         *repositories.PostRepository
	Notifications *repositories.NotificationRepository
}

func NewPostsHandler(posts *repositories.PostRepository, notifications *repositories.NotificationRepository) *PostsHandler {
	return &PostsHandler{Posts: posts, Notifications: notifications}
}

func (h *PostsHandler) response(post *models.Post) (serializers.PostResponse, error) {
	comments, err := h.Posts.CommentCount(post.ID)
	if err != nil {
		return serializers.PostResponse{}, err
	}
	likes, err := h.Posts.LikeCount(post.ID)
	if err != nil {
		return serializers.PostResponse{}, err
	}
	return serializers.NewPostResponse(post, comments, likes), nil
}

func (h *PostsHandler) responses(posts []models.Post) ([]serializers.PostResponse, error) {
	out := make([]serializers.PostResponse, len(posts))
	for i := range posts {
		resp, err := h.response(&posts[i])
		if err != nil {
			return nil, err
		}
		out[i] = resp
	}
	return out, nil
}

// GET /api/posts is the public listing with ?q=, ?author=, ?tag= and
// ?ordering= filters.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := pagination(r)
	filter := repositories.PostFilter{
		Query:    r.URL.Query().Get("q"),
		Author:   r.URL.Query().Get("author"),
		Tag:      r.URL.Query().Get("tag"),
		Ordering: r.URL.Query().Get("ordering"),
		Limit:    limit,
		Offset:   offset,
	}

	posts, total, err := h.Posts.List(filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list posts")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.responses(posts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PageSize: limit, Results: results})
}

// GET /api/posts/my  (auth required)
func (h *PostsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	posts, err := h.Posts.ListByAuthor(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.responses(posts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// GET /api/posts/feed returns posts by followed users, newest first.
func (h *PostsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	limit, offset, page := pagination(r)

	posts, total, err := h.Posts.Feed(user.ID, limit, offset)
	if err != nil {
		logrus.WithError(err).Error("failed to build feed")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results, err := h.responses(posts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PageSize: limit, Results: results})
}

// GET /api/posts/{postID}. The detail view includes comments.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.response(post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	comments, err := h.Posts.CommentsByPost(post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	resp.Comments = make([]serializers.CommentResponse, len(comments))
	for i := range comments {
		resp.Comments[i] = serializers.NewCommentResponse(&comments[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/posts  (auth required)
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req serializers.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	post := models.Post{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := h.Posts.Create(&post, req.Tags); err != nil {
		logrus.WithError(err).Error("failed to create post")
		writeError(w, http.StatusInternalServerError, "Failed to create post.")
		return
	}
	monitoring.PostsCreated.Inc()

	created, err := h.Posts.Get(post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	resp, err := h.response(created)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	logrus.WithFields(logrus.Fields{"post": post.ID, "user": user.Username}).Info("post created")
	writeJSON(w, http.StatusCreated, resp)
}

// getOwnedPost fetches a post and enforces authorship.
func (h *PostsHandler) getOwnedPost(w http.ResponseWriter, r *http.Request) *models.Post {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "postID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid post ID.")
		return nil
	}
	post, err := h.Posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil
	}
	if post.AuthorID != user.ID {
		writeError(w, http.StatusForbidden, "You can only modify your own posts.")
		return nil
	}
	return post
}

// PUT /api/posts/{postID}  (author only)
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	post := h.getOwnedPost(w, r)
	if post == nil {
		return
	}

	var req serializers.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	post.Title = req.Title
	post.Content = req.Content
	if err := h.Posts.Save(post); err != nil {
		logrus.WithError(err).Error("failed to update post")
		writeError(w, http.StatusInternalServerError, "Failed to update post.")
		return
	}
	if err := h.Posts.SetTags(post, req.Tags); err != nil {
		logrus.WithError(err).Error("failed to update post tags")
		writeError(w, http.StatusInternalServerError, "Failed to update post.")
		return
	}

	updated, err := h.Posts.Get(post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	resp, err := h.response(updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DELETE /api/posts/{postID}  (author only)
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post := h.getOwnedPost(w, r)
	if post == nil {
		return
	}
	if err := h.Posts.Delete(post); err != nil {
		logrus.WithError(err).Error("failed to delete post")
		writeError(w, http.StatusInternalServerError, "Failed to delete post.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/posts/{postID}/like is idempotent; only the first like
// notifies the author.
func (h *PostsHandler) Like(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.Posts.Like(post.ID, user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to like post")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if created {
		if err := h.Notifications.Notify(post.AuthorID, user.ID, models.VerbLiked, models.TargetPost, post.ID); err != nil {
			logrus.WithError(err).Error("failed to create like notification")
		} else if post.AuthorID != user.ID {
			monitoring.NotificationsCreated.Inc()
		}
	}

	count, err := h.Posts.LikeCount(post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	message := "Post liked."
	if !created {
		message = "You already liked this post."
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    message,
		"liked":      true,
		"like_count": count,
	})
}

// DELETE /api/posts/{postID}/like
func (h *PostsHandler) Unlike(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Posts.Unlike(post.ID, user.ID); err != nil {
		logrus.WithError(err).Error("failed to unlike post")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	count, err := h.Posts.LikeCount(post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Post unliked.",
		"liked":      false,
		"like_count": count,
	})
}

// GET /api/posts/{postID}/likes lists who liked the post.
func (h *PostsHandler) Likes(w http.ResponseWriter, r *http.Request) {
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

	likes, err := h.Posts.Likes(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	results := make([]serializers.UserSummary, len(likes))
	for i := range likes {
		results[i] = serializers.NewUserSummary(&likes[i].User, 0)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}
