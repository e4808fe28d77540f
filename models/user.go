package models

import "time"

// User represents an account holder across every part of the service.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null;size:254" json:"email"`
	PasswordHash   string     `gorm:"not null;size:255" json:"-"`
	FirstName      string     `gorm:"size:150" json:"first_name"`
	LastName       string     `gorm:"size:150" json:"last_name"`
	Bio            string     `gorm:"size:500" json:"bio"`
	ProfilePicture string     `gorm:"size:500" json:"profile_picture"`
	DateOfBirth    *time.Time `gorm:"default:null" json:"date_of_birth,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsStaff        bool       `gorm:"default:false" json:"is_staff"`

	Posts        []Post        `gorm:"foreignKey:AuthorID" json:"-"`
	ReadingLists []ReadingList `gorm:"foreignKey:OwnerID" json:"-"`
	Groups       []Group       `gorm:"many2many:user_groups;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns first and last name, falling back to the username.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Follow is a directional edge in the follow graph. The pair is unique
// and follower != followee is enforced at the repository layer.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserProfile carries the reading-goal fields that extend the account.
type UserProfile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FavoriteGenres   string    `gorm:"size:200" json:"favorite_genres"`
	ReadingGoalBooks int       `gorm:"default:0" json:"reading_goal_books"`
	ReadingGoalPages int       `gorm:"default:0" json:"reading_goal_pages"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AuthToken backs an issued JWT by its jti claim. Logout deletes the
// row, which revokes the token regardless of its expiry.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"uniqueIndex;not null;size:36"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
