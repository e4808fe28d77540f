package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// ReviewsHandler serves book reviews.
type ReviewsHandler struct {
	Reviews *repositories.ReviewRepository
	Books   *repositories.BookRepository
}

func NewReviewsHandler(reviews *repositories.ReviewRepository, books *repositories.BookRepository) *ReviewsHandler {
	return &ReviewsHandler{Reviews: reviews, Books: books}
}

// GET /api/books/{bookID}/reviews
func (h *ReviewsHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(r, "bookID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID.")
		return
	}
	if _, err := h.Books.GetBook(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Book not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	reviews, err := h.Reviews.ListByBook(bookID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": reviews})
}

// POST /api/books/{bookID}/reviews  (auth required; a second POST from
// the same reviewer updates their existing review)
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	bookID, ok := pathID(r, "bookID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID.")
		return
	}
	if _, err := h.Books.GetBook(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Book not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	var req serializers.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	review, created, err := h.Reviews.Upsert(bookID, user.ID, req.Rating, req.ReviewText)
	if err != nil {
		logrus.WithError(err).Error("failed to save review")
		writeError(w, http.StatusInternalServerError, "Failed to save review.")
		return
	}

	status := http.StatusOK
	message := "Review updated successfully!"
	if created {
		status = http.StatusCreated
		message = "Review added successfully!"
	}
	writeJSON(w, status, map[string]interface{}{"message": message, "review": review})
}

// PUT /api/reviews/{reviewID}  (reviewer only)
func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "reviewID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid review ID.")
		return
	}
	review, err := h.Reviews.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Review not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if review.ReviewerID != user.ID {
		writeError(w, http.StatusForbidden, "You can only edit your own reviews.")
		return
	}

	var req serializers.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	review.Rating = req.Rating
	review.ReviewText = req.ReviewText
	if err := h.Reviews.Save(review); err != nil {
		logrus.WithError(err).Error("failed to update review")
		writeError(w, http.StatusInternalServerError, "Failed to update review.")
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// DELETE /api/reviews/{reviewID}  (reviewer only)
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "reviewID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid review ID.")
		return
	}
	review, err := h.Reviews.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Review not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if review.ReviewerID != user.ID {
		writeError(w, http.StatusForbidden, "You can only delete your own reviews.")
		return
	}
	if err := h.Reviews.Delete(review); err != nil {
		logrus.WithError(err).Error("failed to delete review")
		writeError(w, http.StatusInternalServerError, "Failed to delete review.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
