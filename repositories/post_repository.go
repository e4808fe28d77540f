package repositories

import (
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

// PostFilter is the query surface of GET /api/posts.
type PostFilter struct {
	Query    string // matches title or content
	Author   string // author username
	Tag      string
	Ordering string
	Limit    int
	Offset   int
}

var postOrderings = map[string]string{
	"created_at":  "posts.created_at ASC",
	"-created_at": "posts.created_at DESC",
	"updated_at":  "posts.updated_at ASC",
	"-updated_at": "posts.updated_at DESC",
	"title":       "posts.title ASC",
	"-title":      "posts.title DESC",
}

// Create stores the post and resolves tag names, creating missing tags.
func (repo *PostRepository) Create(post *models.Post, tagNames []string) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(post).Error
	})
}

// SetTags replaces the post's tags with the named set.
func (repo *PostRepository) SetTags(post *models.Post, tagNames []string) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(tags)
	})
}

func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (repo *PostRepository) Get(id uint) (*models.Post, error) {
	var post models.Post
	err := repo.DB.Preload("Author").Preload("Tags").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (repo *PostRepository) Save(post *models.Post) error {
	return repo.DB.Save(post).Error
}

// Delete removes the post together with its comments and likes.
func (repo *PostRepository) Delete(post *models.Post) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

func (repo *PostRepository) List(filter PostFilter) ([]models.Post, int64, error) {
	query := repo.DB.Model(&models.Post{})

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("posts.title LIKE ? OR posts.content LIKE ?", pattern, pattern)
	}
	if filter.Author != "" {
		query = query.Joins("INNER JOIN users ON users.id = posts.author_id").
			Where("users.username = ?", filter.Author)
	}
	if filter.Tag != "" {
		query = query.
			Joins("INNER JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("INNER JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	}

	// Count on a detached session; Distinct would otherwise stick to
	// the chain and strip every column from the Find below.
	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := postOrderings[filter.Ordering]
	if !ok {
		order = "posts.created_at DESC"
	}

	var posts []models.Post
	err := query.Preload("Author").Preload("Tags").
		Distinct("posts.*").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	return posts, total, err
}

func (repo *PostRepository) ListByAuthor(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := repo.DB.Preload("Author").Preload("Tags").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Feed returns posts by users the given user follows, newest first.
func (repo *PostRepository) Feed(userID uint, limit, offset int) ([]models.Post, int64, error) {
	base := repo.DB.Model(&models.Post{}).
		Joins("INNER JOIN follows ON follows.followee_id = posts.author_id").
		Where("follows.follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := base.Preload("Author").Preload("Tags").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (repo *PostRepository) CommentCount(postID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (repo *PostRepository) CreateComment(comment *models.Comment) error {
	if err := repo.DB.Create(comment).Error; err != nil {
		return err
	}
	return repo.DB.Preload("Author").First(comment, comment.ID).Error
}

func (repo *PostRepository) GetComment(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := repo.DB.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (repo *PostRepository) SaveComment(comment *models.Comment) error {
	return repo.DB.Save(comment).Error
}

func (repo *PostRepository) DeleteComment(comment *models.Comment) error {
	return repo.DB.Delete(comment).Error
}

// CommentsByPost lists a post's comments oldest first.
func (repo *PostRepository) CommentsByPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := repo.DB.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Like records a like; returns false when the user already liked the
// post.
func (repo *PostRepository) Like(postID, userID uint) (bool, error) {
	like := models.Like{PostID: postID, UserID: userID}
	result := repo.DB.Where(models.Like{PostID: postID, UserID: userID}).FirstOrCreate(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Unlike removes the like if present.
func (repo *PostRepository) Unlike(postID, userID uint) error {
	return repo.DB.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
}

func (repo *PostRepository) Likes(postID uint) ([]models.Like, error) {
	var likes []models.Like
	err := repo.DB.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

func (repo *PostRepository) LikeCount(postID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
