package models

import "time"

// Author of one or more books.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is the single catalog entry shared by the library, API and
// bookshelf surfaces. ISBN is the natural unique key.
type Book struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"not null;size:200" json:"title"`
	ISBN            string `gorm:"uniqueIndex;not null;size:13" json:"isbn"`
	PublicationYear int    `gorm:"not null" json:"publication_year"`
	AuthorID        uint   `gorm:"not null;index" json:"author_id"`
	Author          Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	AddedByID       uint   `gorm:"index" json:"added_by_id"`
	AddedBy         User   `gorm:"foreignKey:AddedByID" json:"-"`

	Reviews []BookReview `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Library holds a collection of books.
type Library struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	Books     []Book     `gorm:"many2many:library_books;" json:"books,omitempty"`
	Librarian *Librarian `gorm:"foreignKey:LibraryID" json:"librarian,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Librarian runs exactly one library.
type Librarian struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	LibraryID uint      `gorm:"not null;uniqueIndex" json:"library_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
