package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// Upsert creates the reviewer's review of a book, or updates it if one
// already exists. Returns the review and whether it was created.
func (repo *ReviewRepository) Upsert(bookID, reviewerID uint, rating int, text string) (*models.BookReview, bool, error) {
	var review models.BookReview
	err := repo.DB.Where("book_id = ? AND reviewer_id = ?", bookID, reviewerID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		review = models.BookReview{
			BookID:     bookID,
			ReviewerID: reviewerID,
			Rating:     rating,
			ReviewText: text,
		}
		if err := repo.DB.Create(&review).Error; err != nil {
			return nil, false, err
		}
		return &review, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	review.Rating = rating
	review.ReviewText = text
	if err := repo.DB.Save(&review).Error; err != nil {
		return nil, false, err
	}
	return &review, false, nil
}

func (repo *ReviewRepository) ListByBook(bookID uint) ([]models.BookReview, error) {
	var reviews []models.BookReview
	err := repo.DB.Preload("Reviewer").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (repo *ReviewRepository) Get(id uint) (*models.BookReview, error) {
	var review models.BookReview
	if err := repo.DB.Preload("Reviewer").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (repo *ReviewRepository) Save(review *models.BookReview) error {
	return repo.DB.Save(review).Error
}

func (repo *ReviewRepository) Delete(review *models.BookReview) error {
	return repo.DB.Delete(review).Error
}
