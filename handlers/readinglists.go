package handlers

import (
	"errors"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// ReadingListsHandler serves personal and public reading lists.
type ReadingListsHandler struct {
	Lists *repositories.ReadingListRepository
	Books *repositories.BookRepository
}

func NewReadingListsHandler(lists *repositories.ReadingListRepository, books *repositories.BookRepository) *ReadingListsHandler {
	return &ReadingListsHandler{Lists: lists, Books: books}
}

// GET /api/reading-lists returns the caller's lists; ?public=true
// switches to other users' public lists.
func (h *ReadingListsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var (
		lists []models.ReadingList
		err   error
	)
	if r.URL.Query().Get("public") == "true" {
		lists, err = h.Lists.ListPublic(user.ID)
	} else {
		lists, err = h.Lists.ListByOwner(user.ID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": lists})
}

// POST /api/reading-lists  (auth required)
func (h *ReadingListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req serializers.ReadingListRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	if taken, err := h.Lists.NameTaken(user.ID, req.Name, 0); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if taken {
		writeValidationErrors(w, serializers.ValidationErrors{
			"name": "You already have a reading list with this name.",
		})
		return
	}

	slug, err := gonanoid.New()
	if err != nil {
		logrus.WithError(err).Error("failed to generate share slug")
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	list := models.ReadingList{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
		IsPublic:    req.IsPublic,
		ShareSlug:   slug,
	}
	if err := h.Lists.Create(&list); err != nil {
		logrus.WithError(err).Error("failed to create reading list")
		writeError(w, http.StatusInternalServerError, "Failed to create reading list.")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// getOwned fetches a list and enforces ownership.
func (h *ReadingListsHandler) getOwned(w http.ResponseWriter, r *http.Request) *models.ReadingList {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "listID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid reading list ID.")
		return nil
	}
	list, err := h.Lists.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Reading list not found.")
			return nil
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return nil
	}
	if list.OwnerID != user.ID {
		writeError(w, http.StatusForbidden, "You do not have access to this reading list.")
		return nil
	}
	return list
}

// GET /api/reading-lists/{listID}  (owner, or anyone if public)
func (h *ReadingListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	id, ok := pathID(r, "listID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid reading list ID.")
		return
	}
	list, err := h.Lists.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Reading list not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if list.OwnerID != user.ID && !list.IsPublic {
		writeError(w, http.StatusForbidden, "You do not have access to this reading list.")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/reading-lists/shared/{slug} is a public fetch, no auth.
func (h *ReadingListsHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	slug := muxVar(r, "slug")
	list, err := h.Lists.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Reading list not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if !list.IsPublic {
		writeError(w, http.StatusForbidden, "This reading list is private.")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PUT /api/reading-lists/{listID}  (owner only)
func (h *ReadingListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	list := h.getOwned(w, r)
	if list == nil {
		return
	}

	var req serializers.ReadingListRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	if taken, err := h.Lists.NameTaken(list.OwnerID, req.Name, list.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if taken {
		writeValidationErrors(w, serializers.ValidationErrors{
			"name": "You already have a reading list with this name.",
		})
		return
	}

	list.Name = req.Name
	list.Description = req.Description
	list.IsPublic = req.IsPublic
	if err := h.Lists.Save(list); err != nil {
		logrus.WithError(err).Error("failed to update reading list")
		writeError(w, http.StatusInternalServerError, "Failed to update reading list.")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DELETE /api/reading-lists/{listID}  (owner only)
func (h *ReadingListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list := h.getOwned(w, r)
	if list == nil {
		return
	}
	if err := h.Lists.Delete(list); err != nil {
		logrus.WithError(err).Error("failed to delete reading list")
		writeError(w, http.StatusInternalServerError, "Failed to delete reading list.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/reading-lists/{listID}/books  (owner only)
func (h *ReadingListsHandler) UpdateBooks(w http.ResponseWriter, r *http.Request) {
	list := h.getOwned(w, r)
	if list == nil {
		return
	}

	var req serializers.MembershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	book, err := h.Books.GetBook(req.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Book not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	if req.Action == serializers.ActionAdd {
		err = h.Lists.AttachBook(list, book)
	} else {
		err = h.Lists.DetachBook(list, book)
	}
	if err != nil {
		logrus.WithError(err).Error("failed to update reading list books")
		writeError(w, http.StatusInternalServerError, "Failed to update reading list.")
		return
	}

	updated, err := h.Lists.Get(list.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
