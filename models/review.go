package models

import "time"

// BookReview is one reader's rating of a book. A reviewer gets a single
// review per book; a second submission updates the first.
type BookReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookID     uint      `gorm:"not null;index;uniqueIndex:idx_book_reviewer" json:"book_id"`
	Book       Book      `gorm:"foreignKey:BookID" json:"-"`
	ReviewerID uint      `gorm:"not null;index;uniqueIndex:idx_book_reviewer" json:"reviewer_id"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewText string    `gorm:"not null;size:2000" json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadingList is an owned, optionally public collection of books.
// ShareSlug allows fetching a public list without authentication.
type ReadingList struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"-"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	ShareSlug   string    `gorm:"uniqueIndex;size:100" json:"share_slug"`
	Books       []Book    `gorm:"many2many:reading_list_books;" json:"books,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
