package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// LibrariesHandler serves libraries and librarians.
type LibrariesHandler struct {
	Books *repositories.BookRepository
}

func NewLibrariesHandler(books *repositories.BookRepository) *LibrariesHandler {
	return &LibrariesHandler{Books: books}
}

// GET /api/libraries
func (h *LibrariesHandler) ListLibraries(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.Books.ListLibraries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": libraries})
}

// GET /api/libraries/{libraryID}
func (h *LibrariesHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "libraryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid library ID.")
		return
	}
	library, err := h.Books.GetLibrary(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Library not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, library)
}

// POST /api/libraries  (auth required)
func (h *LibrariesHandler) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req serializers.LibraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	library := models.Library{Name: req.Name}
	if err := h.Books.CreateLibrary(&library); err != nil {
		logrus.WithError(err).Error("failed to create library")
		writeError(w, http.StatusInternalServerError, "Failed to create library.")
		return
	}
	writeJSON(w, http.StatusCreated, library)
}

// POST /api/libraries/{libraryID}/books  (auth required)
func (h *LibrariesHandler) UpdateLibraryBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "libraryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid library ID.")
		return
	}
	library, err := h.Books.GetLibrary(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Library not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
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
		err = h.Books.AttachLibraryBook(library, book)
	} else {
		err = h.Books.DetachLibraryBook(library, book)
	}
	if err != nil {
		logrus.WithError(err).Error("failed to update library books")
		writeError(w, http.StatusInternalServerError, "Failed to update library.")
		return
	}

	updated, err := h.Books.GetLibrary(library.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GET /api/librarians
func (h *LibrariesHandler) ListLibrarians(w http.ResponseWriter, r *http.Request) {
	librarians, err := h.Books.ListLibrarians()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": librarians})
}

// POST /api/librarians  (auth required)
func (h *LibrariesHandler) CreateLibrarian(w http.ResponseWriter, r *http.Request) {
	var req serializers.LibrarianRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if _, err := h.Books.GetLibrary(req.LibraryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeValidationErrors(w, serializers.ValidationErrors{"library_id": "Library does not exist."})
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if taken, err := h.Books.LibraryHasLibrarian(req.LibraryID); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if taken {
		writeValidationErrors(w, serializers.ValidationErrors{"library_id": "This library already has a librarian."})
		return
	}

	librarian := models.Librarian{Name: req.Name, LibraryID: req.LibraryID}
	if err := h.Books.CreateLibrarian(&librarian); err != nil {
		logrus.WithError(err).Error("failed to create librarian")
		writeError(w, http.StatusInternalServerError, "Failed to create librarian.")
		return
	}
	writeJSON(w, http.StatusCreated, librarian)
}
