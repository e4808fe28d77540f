package serializers

import (
	"fmt"
	"time"
)

// AuthorRequest creates an author.
type AuthorRequest struct {
	Name string `json:"name"`
}

func (r *AuthorRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Name = sanitize(r.Name)
	if len(r.Name) < 2 || len(r.Name) > 255 {
		errs["name"] = "Author name must be between 2 and 255 characters."
	}
	return errs.OrNil()
}

// BookRequest creates or updates a book. Validation mirrors the rules
// of the catalog: escaped title, 13-digit unique ISBN, and a
// publication year that is neither in the future nor implausibly old.
type BookRequest struct {
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        uint   `json:"author_id"`
}

func (r *BookRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	r.Title = sanitize(r.Title)
	if len(r.Title) < 2 {
		errs["title"] = "Title must be at least 2 characters long."
	} else if len(r.Title) > 200 {
		errs["title"] = "Title must be less than 200 characters."
	}

	r.ISBN = digitsOnly(r.ISBN)
	if len(r.ISBN) != 13 {
		errs["isbn"] = "ISBN must be exactly 13 digits."
	}

	currentYear := time.Now().Year()
	if r.PublicationYear > currentYear {
		errs["publication_year"] = fmt.Sprintf(
			"publication_year cannot be in the future (got %d, current year is %d).",
			r.PublicationYear, currentYear)
	} else if r.PublicationYear < 1000 {
		errs["publication_year"] = "Publication year seems too old. Please verify."
	}

	if r.AuthorID == 0 {
		errs["author_id"] = "author_id is required."
	}
	return errs.OrNil()
}

// ReviewRequest creates or updates a book review.
type ReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

func (r *ReviewRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5."
	}
	r.ReviewText = sanitize(r.ReviewText)
	if len(r.ReviewText) < 10 {
		errs["review_text"] = "Review must be at least 10 characters long."
	} else if len(r.ReviewText) > 2000 {
		errs["review_text"] = "Review must be less than 2000 characters."
	}
	return errs.OrNil()
}

// ReadingListRequest creates or updates a reading list.
type ReadingListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (r *ReadingListRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Name = sanitize(r.Name)
	if len(r.Name) < 2 || len(r.Name) > 100 {
		errs["name"] = "Name must be between 2 and 100 characters."
	}
	r.Description = sanitize(r.Description)
	if len(r.Description) > 500 {
		errs["description"] = "Description must be less than 500 characters."
	}
	return errs.OrNil()
}

// LibraryRequest creates a library.
type LibraryRequest struct {
	Name string `json:"name"`
}

func (r *LibraryRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Name = sanitize(r.Name)
	if len(r.Name) < 2 || len(r.Name) > 100 {
		errs["name"] = "Library name must be between 2 and 100 characters."
	}
	return errs.OrNil()
}

// LibrarianRequest assigns a librarian to a library.
type LibrarianRequest struct {
	Name      string `json:"name"`
	LibraryID uint   `json:"library_id"`
}

func (r *LibrarianRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Name = sanitize(r.Name)
	if len(r.Name) < 2 || len(r.Name) > 100 {
		errs["name"] = "Librarian name must be between 2 and 100 characters."
	}
	if r.LibraryID == 0 {
		errs["library_id"] = "library_id is required."
	}
	return errs.OrNil()
}

// Membership actions for the book collections on libraries and
// reading lists.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// MembershipRequest attaches or detaches a book.
type MembershipRequest struct {
	BookID uint   `json:"book_id"`
	Action string `json:"action"`
}

func (r *MembershipRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.BookID == 0 {
		errs["book_id"] = "book_id is required."
	}
	if r.Action != ActionAdd && r.Action != ActionRemove {
		errs["action"] = "Action must be either 'add' or 'remove'."
	}
	return errs.OrNil()
}
