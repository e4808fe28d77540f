package models

import (
	"time"
)

// Target discriminators for Notification.TargetType.
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetUser    = "user"
)

// Notification verbs.
const (
	VerbLiked     = "liked your post"
	VerbCommented = "commented on your post"
	VerbFollowed  = "started following you"
)

// Notification tells a user that someone acted on their content.
// TargetType/TargetID point at the object the verb refers to.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index:idx_recipient_created;index:idx_recipient_read" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	ActorID     uint      `gorm:"not null;index" json:"actor_id"`
	Actor       User      `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"actor,omitempty"`
	Verb        string    `gorm:"not null;size:255" json:"verb"`
	TargetType  string    `gorm:"size:20" json:"target_type"`
	TargetID    uint      `json:"target_id"`
	Read        bool      `gorm:"default:false;index:idx_recipient_read" json:"read"`
	CreatedAt   time.Time `gorm:"index:idx_recipient_created" json:"created_at"`
}
