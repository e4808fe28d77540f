package serializers

import (
	"time"

	"github.com/Shineselorm/learnlab-api/models"
)

// PostRequest creates or updates a post. Tags are plain names; unknown
// ones are created on the fly.
type PostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r *PostRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Title = sanitize(r.Title)
	if r.Title == "" {
		errs["title"] = "Post title cannot be empty."
	} else if len(r.Title) > 200 {
		errs["title"] = "Post title cannot exceed 200 characters."
	}
	r.Content = sanitize(r.Content)
	if r.Content == "" {
		errs["content"] = "Post content cannot be empty."
	}
	for i, tag := range r.Tags {
		r.Tags[i] = sanitize(tag)
		if r.Tags[i] == "" || len(r.Tags[i]) > 50 {
			errs["tags"] = "Tags must be non-empty and at most 50 characters."
		}
	}
	return errs.OrNil()
}

// CommentRequest creates or updates a comment. The post comes from the
// URL path.
type CommentRequest struct {
	Content string `json:"content"`
}

func (r *CommentRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	r.Content = sanitize(r.Content)
	if r.Content == "" {
		errs["content"] = "Comment content cannot be empty."
	} else if len(r.Content) > 1000 {
		errs["content"] = "Comment content cannot exceed 1000 characters."
	}
	return errs.OrNil()
}

// PostResponse is a post with its author and engagement counts.
type PostResponse struct {
	ID           uint              `json:"id"`
	Author       UserSummary       `json:"author"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Tags         []string          `json:"tags"`
	CommentCount int64             `json:"comment_count"`
	LikeCount    int64             `json:"like_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Comments     []CommentResponse `json:"comments,omitempty"`
}

func NewPostResponse(p *models.Post, commentCount, likeCount int64) PostResponse {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t.Name
	}
	return PostResponse{
		ID:           p.ID,
		Author:       NewUserSummary(&p.Author, 0),
		Title:        p.Title,
		Content:      p.Content,
		Tags:         tags,
		CommentCount: commentCount,
		LikeCount:    likeCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CommentResponse is a comment with its author.
type CommentResponse struct {
	ID        uint        `json:"id"`
	PostID    uint        `json:"post_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    NewUserSummary(&c.Author, 0),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NotificationResponse is a notification with its actor.
type NotificationResponse struct {
	ID         uint        `json:"id"`
	Actor      UserSummary `json:"actor"`
	Verb       string      `json:"verb"`
	TargetType string      `json:"target_type"`
	TargetID   uint        `json:"target_id"`
	Read       bool        `json:"read"`
	CreatedAt  time.Time   `json:"created_at"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Actor:      NewUserSummary(&n.Actor, 0),
		Verb:       n.Verb,
		TargetType: n.TargetType,
		TargetID:   n.TargetID,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}
