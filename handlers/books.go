package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/middleware"
	"github.com/Shineselorm/learnlab-api/models"
	"github.com/Shineselorm/learnlab-api/repositories"
	"github.com/Shineselorm/learnlab-api/serializers"
)

// BooksHandler serves authors and the book catalog.
type BooksHandler struct {
	Books *repositories.BookRepository
}

func NewBooksHandler(books *repositories.BookRepository) *BooksHandler {
	return &BooksHandler{Books: books}
}

// GET /api/books
func (h *BooksHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := pagination(r)
	filter := repositories.BookFilter{
		Search:   r.URL.Query().Get("search"),
		Author:   r.URL.Query().Get("author"),
		Ordering: r.URL.Query().Get("ordering"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year filter.")
			return
		}
		filter.Year = year
	}

	books, total, err := h.Books.ListBooks(filter)
	if err != nil {
		logrus.WithError(err).Error("failed to list books")
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, paginated{Count: total, Page: page, PageSize: limit, Results: books})
}

// GET /api/books/{bookID}
func (h *BooksHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "bookID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID.")
		return
	}
	book, err := h.Books.GetBook(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Book with ID %d not found.", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// POST /api/books  (requires can_create_book)
func (h *BooksHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req serializers.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if _, err := h.Books.GetAuthor(req.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeValidationErrors(w, serializers.ValidationErrors{"author_id": "Author does not exist."})
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if exists, err := h.Books.ISBNExists(req.ISBN, 0); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if exists {
		writeValidationErrors(w, serializers.ValidationErrors{"isbn": "A book with this ISBN already exists."})
		return
	}

	book := models.Book{
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
		AddedByID:       user.ID,
	}
	if err := h.Books.CreateBook(&book); err != nil {
		logrus.WithError(err).Error("failed to create book")
		writeError(w, http.StatusInternalServerError, "Failed to create book.")
		return
	}

	logrus.WithFields(logrus.Fields{"book": book.ID, "user": user.Username}).Info("book created")
	writeJSON(w, http.StatusCreated, book)
}

// PUT /api/books/{bookID}  (requires can_edit_book)
func (h *BooksHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "bookID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID.")
		return
	}
	book, err := h.Books.GetBook(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Book with ID %d not found.", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	var req serializers.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}
	if exists, err := h.Books.ISBNExists(req.ISBN, book.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	} else if exists {
		writeValidationErrors(w, serializers.ValidationErrors{"isbn": "A book with this ISBN already exists."})
		return
	}
	if _, err := h.Books.GetAuthor(req.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeValidationErrors(w, serializers.ValidationErrors{"author_id": "Author does not exist."})
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	book.Title = req.Title
	book.ISBN = req.ISBN
	book.PublicationYear = req.PublicationYear
	book.AuthorID = req.AuthorID
	if err := h.Books.SaveBook(book); err != nil {
		logrus.WithError(err).Error("failed to update book")
		writeError(w, http.StatusInternalServerError, "Failed to update book.")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// DELETE /api/books/{bookID}  (requires can_delete_book)
func (h *BooksHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "bookID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID.")
		return
	}
	book, err := h.Books.GetBook(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Book with ID %d not found.", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if err := h.Books.DeleteBook(book); err != nil {
		logrus.WithError(err).Error("failed to delete book")
		writeError(w, http.StatusInternalServerError, "Failed to delete book.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/authors
func (h *BooksHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.Books.ListAuthors()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": authors})
}

// GET /api/authors/{authorID}
func (h *BooksHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "authorID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid author ID.")
		return
	}
	author, err := h.Books.GetAuthor(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Author not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	writeJSON(w, http.StatusOK, author)
}

// POST /api/authors  (auth required)
func (h *BooksHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req serializers.AuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	author := models.Author{Name: req.Name}
	if err := h.Books.CreateAuthor(&author); err != nil {
		logrus.WithError(err).Error("failed to create author")
		writeError(w, http.StatusInternalServerError, "Failed to create author.")
		return
	}
	writeJSON(w, http.StatusCreated, author)
}

// DELETE /api/authors/{authorID}  (requires can_delete_book; removing
// an author cascades to their books)
func (h *BooksHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "authorID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid author ID.")
		return
	}
	author, err := h.Books.GetAuthor(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Author not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if err := h.Books.DeleteAuthor(author); err != nil {
		logrus.WithError(err).Error("failed to delete author")
		writeError(w, http.StatusInternalServerError, "Failed to delete author.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
