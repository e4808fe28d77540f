package repositories

import (
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

type BookRepository struct {
	DB *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{DB: db}
}

// BookFilter is the query surface of GET /api/books.
type BookFilter struct {
	Search   string // matches title or author name
	Author   string // exact author name
	Year     int
	Ordering string // title, publication_year, created_at; "-" prefix for desc
	Limit    int
	Offset   int
}

var bookOrderings = map[string]string{
	"title":             "books.title ASC",
	"-title":            "books.title DESC",
	"publication_year":  "books.publication_year ASC",
	"-publication_year": "books.publication_year DESC",
	"created_at":        "books.created_at ASC",
	"-created_at":       "books.created_at DESC",
}

func (repo *BookRepository) ListBooks(filter BookFilter) ([]models.Book, int64, error) {
	query := repo.DB.Model(&models.Book{}).
		Joins("INNER JOIN authors ON authors.id = books.author_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("books.title LIKE ? OR authors.name LIKE ?", pattern, pattern)
	}
	if filter.Author != "" {
		query = query.Where("authors.name = ?", filter.Author)
	}
	if filter.Year != 0 {
		query = query.Where("books.publication_year = ?", filter.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := bookOrderings[filter.Ordering]
	if !ok {
		order = "books.id ASC"
	}

	var books []models.Book
	err := query.Preload("Author").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&books).Error
	return books, total, err
}

func (repo *BookRepository) GetBook(id uint) (*models.Book, error) {
	var book models.Book
	err := repo.DB.Preload("Author").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("book_reviews.created_at DESC")
		}).
		Preload("Reviews.Reviewer").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (repo *BookRepository) CreateBook(book *models.Book) error {
	return repo.DB.Create(book).Error
}

func (repo *BookRepository) SaveBook(book *models.Book) error {
	return repo.DB.Save(book).Error
}

// DeleteBook removes the book and its reviews atomically.
func (repo *BookRepository) DeleteBook(book *models.Book) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", book.ID).Delete(&models.BookReview{}).Error; err != nil {
			return err
		}
		return tx.Delete(book).Error
	})
}

// ISBNExists checks uniqueness, excluding the book being updated.
func (repo *BookRepository) ISBNExists(isbn string, excludeID uint) (bool, error) {
	var count int64
	query := repo.DB.Model(&models.Book{}).Where("isbn = ?", isbn)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (repo *BookRepository) CreateAuthor(author *models.Author) error {
	return repo.DB.Create(author).Error
}

func (repo *BookRepository) ListAuthors() ([]models.Author, error) {
	var authors []models.Author
	err := repo.DB.Preload("Books").Order("authors.name ASC").Find(&authors).Error
	return authors, err
}

func (repo *BookRepository) GetAuthor(id uint) (*models.Author, error) {
	var author models.Author
	if err := repo.DB.Preload("Books").First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// DeleteAuthor removes the author and cascades to their books.
func (repo *BookRepository) DeleteAuthor(author *models.Author) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		var books []models.Book
		if err := tx.Where("author_id = ?", author.ID).Find(&books).Error; err != nil {
			return err
		}
		for i := range books {
			if err := tx.Where("book_id = ?", books[i].ID).Delete(&models.BookReview{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", author.ID).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(author).Error
	})
}

func (repo *BookRepository) CreateLibrary(library *models.Library) error {
	return repo.DB.Create(library).Error
}

func (repo *BookRepository) ListLibraries() ([]models.Library, error) {
	var libraries []models.Library
	err := repo.DB.Preload("Books").Preload("Books.Author").Preload("Librarian").
		Order("libraries.name ASC").Find(&libraries).Error
	return libraries, err
}

func (repo *BookRepository) GetLibrary(id uint) (*models.Library, error) {
	var library models.Library
	err := repo.DB.Preload("Books").Preload("Books.Author").Preload("Librarian").
		First(&library, id).Error
	if err != nil {
		return nil, err
	}
	return &library, nil
}

func (repo *BookRepository) AttachLibraryBook(library *models.Library, book *models.Book) error {
	return repo.DB.Model(library).Association("Books").Append(book)
}

func (repo *BookRepository) DetachLibraryBook(library *models.Library, book *models.Book) error {
	return repo.DB.Model(library).Association("Books").Delete(book)
}

func (repo *BookRepository) CreateLibrarian(librarian *models.Librarian) error {
	return repo.DB.Create(librarian).Error
}

func (repo *BookRepository) ListLibrarians() ([]models.Librarian, error) {
	var librarians []models.Librarian
	err := repo.DB.Order("librarians.name ASC").Find(&librarians).Error
	return librarians, err
}

// LibraryHasLibrarian guards the one-to-one constraint before insert so
// the violation surfaces as a validation error, not a database error.
func (repo *BookRepository) LibraryHasLibrarian(libraryID uint) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Librarian{}).Where("library_id = ?", libraryID).Count(&count).Error
	return count > 0, err
}
