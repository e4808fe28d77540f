package models

import "time"

// Post is a piece of user-generated content, served both by the blog
// routes (tags, search) and the social routes (likes, feed).
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	Tags      []Tag     `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes     []Like    `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a unique label attachable to posts.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Posts     []Post    `gorm:"many2many:post_tags;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment on a post, listed in chronological order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string    `gorm:"not null;size:1000" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like marks that a user liked a post, once.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_post_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
