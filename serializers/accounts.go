package serializers

import (
	"net/mail"

	"github.com/Shineselorm/learnlab-api/models"
)

// RegisterRequest is the payload for POST /api/accounts/register.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Bio             string `json:"bio"`
}

func (r *RegisterRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	r.Username = sanitize(r.Username)
	if len(r.Username) < 3 || len(r.Username) > 150 {
		errs["username"] = "Username must be between 3 and 150 characters."
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	if len(r.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if r.Password != r.PasswordConfirm {
		errs["password"] = "Password fields must match."
	}
	r.FirstName = sanitize(r.FirstName)
	r.LastName = sanitize(r.LastName)
	r.Bio = sanitize(r.Bio)
	if len(r.Bio) > 500 {
		errs["bio"] = "Bio must be less than 500 characters."
	}
	return errs.OrNil()
}

// LoginRequest is the payload for POST /api/accounts/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Username == "" {
		errs["username"] = "Username is required."
	}
	if r.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs.OrNil()
}

// UpdateProfileRequest is the payload for PUT /api/accounts/profile.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateProfileRequest struct {
	Email            *string `json:"email,omitempty"`
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	ProfilePicture   *string `json:"profile_picture,omitempty"`
	FavoriteGenres   *string `json:"favorite_genres,omitempty"`
	ReadingGoalBooks *int    `json:"reading_goal_books,omitempty"`
	ReadingGoalPages *int    `json:"reading_goal_pages,omitempty"`
}

func (r *UpdateProfileRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Email != nil {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			errs["email"] = "Enter a valid email address."
		}
	}
	for _, f := range []*string{r.FirstName, r.LastName, r.Bio, r.FavoriteGenres} {
		if f != nil {
			*f = sanitize(*f)
		}
	}
	if r.Bio != nil && len(*r.Bio) > 500 {
		errs["bio"] = "Bio must be less than 500 characters."
	}
	if r.ReadingGoalBooks != nil && *r.ReadingGoalBooks < 0 {
		errs["reading_goal_books"] = "Reading goal cannot be negative."
	}
	if r.ReadingGoalPages != nil && *r.ReadingGoalPages < 0 {
		errs["reading_goal_pages"] = "Reading goal cannot be negative."
	}
	return errs.OrNil()
}

// Follow actions.
const (
	ActionFollow   = "follow"
	ActionUnfollow = "unfollow"
)

// FollowRequest is the payload for POST /api/accounts/follow.
type FollowRequest struct {
	UserID uint   `json:"user_id"`
	Action string `json:"action"`
}

func (r *FollowRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.UserID == 0 {
		errs["user_id"] = "user_id is required."
	}
	if r.Action != ActionFollow && r.Action != ActionUnfollow {
		errs["action"] = "Action must be either 'follow' or 'unfollow'."
	}
	return errs.OrNil()
}

// GroupMembershipRequest adds or removes a user from a named group.
type GroupMembershipRequest struct {
	UserID uint   `json:"user_id"`
	Group  string `json:"group"`
}

func (r *GroupMembershipRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.UserID == 0 {
		errs["user_id"] = "user_id is required."
	}
	r.Group = sanitize(r.Group)
	if r.Group == "" {
		errs["group"] = "Group name is required."
	}
	return errs.OrNil()
}

// UserSummary is the compact user representation embedded in posts,
// comments, likes and user lists.
type UserSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	FollowerCount  int64  `json:"follower_count"`
}

func NewUserSummary(u *models.User, followerCount int64) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		FollowerCount:  followerCount,
	}
}

// ProfileResponse is the full profile view with relationship counts.
type ProfileResponse struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Bio              string `json:"bio"`
	ProfilePicture   string `json:"profile_picture"`
	DateJoined       string `json:"date_joined"`
	FollowerCount    int64  `json:"follower_count"`
	FollowingCount   int64  `json:"following_count"`
	IsFollowing      bool   `json:"is_following"`
	FavoriteGenres   string `json:"favorite_genres,omitempty"`
	ReadingGoalBooks int    `json:"reading_goal_books,omitempty"`
	ReadingGoalPages int    `json:"reading_goal_pages,omitempty"`
}

func NewProfileResponse(u *models.User, profile *models.UserProfile, followers, following int64, isFollowing bool) ProfileResponse {
	resp := ProfileResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		DateJoined:     u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}
	if profile != nil {
		resp.FavoriteGenres = profile.FavoriteGenres
		resp.ReadingGoalBooks = profile.ReadingGoalBooks
		resp.ReadingGoalPages = profile.ReadingGoalPages
	}
	return resp
}
