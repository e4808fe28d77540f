package models

import "time"

// Permission codes over the book collection.
const (
	PermCanViewBook   = "can_view_book"
	PermCanCreateBook = "can_create_book"
	PermCanEditBook   = "can_edit_book"
	PermCanDeleteBook = "can_delete_book"
)

// Default group names seeded by the migrate command.
const (
	GroupViewers = "viewers"
	GroupEditors = "editors"
	GroupAdmins  = "admins"
)

// Permission is a named capability assignable to groups.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:100" json:"code"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Group bundles permissions and is assigned to users.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;not null;size:150" json:"name"`
	Permissions []Permission `gorm:"many2many:group_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_groups;" json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
