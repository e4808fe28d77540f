package repositories

import (
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

type ReadingListRepository struct {
	DB *gorm.DB
}

func NewReadingListRepository(db *gorm.DB) *ReadingListRepository {
	return &ReadingListRepository{DB: db}
}

func (repo *ReadingListRepository) Create(list *models.ReadingList) error {
	return repo.DB.Create(list).Error
}

func (repo *ReadingListRepository) Save(list *models.ReadingList) error {
	return repo.DB.Save(list).Error
}

func (repo *ReadingListRepository) Get(id uint) (*models.ReadingList, error) {
	var list models.ReadingList
	err := repo.DB.Preload("Books").Preload("Books.Author").First(&list, id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetBySlug fetches a list by its public share slug.
func (repo *ReadingListRepository) GetBySlug(slug string) (*models.ReadingList, error) {
	var list models.ReadingList
	err := repo.DB.Preload("Books").Preload("Books.Author").
		Where("share_slug = ?", slug).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (repo *ReadingListRepository) ListByOwner(ownerID uint) ([]models.ReadingList, error) {
	var lists []models.ReadingList
	err := repo.DB.Preload("Books").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

// ListPublic returns public lists of everyone but the caller.
func (repo *ReadingListRepository) ListPublic(excludeOwnerID uint) ([]models.ReadingList, error) {
	var lists []models.ReadingList
	err := repo.DB.Preload("Books").
		Where("is_public = ? AND owner_id <> ?", true, excludeOwnerID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

// NameTaken checks the per-owner name uniqueness rule.
func (repo *ReadingListRepository) NameTaken(ownerID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := repo.DB.Model(&models.ReadingList{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (repo *ReadingListRepository) Delete(list *models.ReadingList) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(list).Association("Books").Clear(); err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
}

func (repo *ReadingListRepository) AttachBook(list *models.ReadingList, book *models.Book) error {
	return repo.DB.Model(list).Association("Books").Append(book)
}

func (repo *ReadingListRepository) DetachBook(list *models.ReadingList, book *models.Book) error {
	return repo.DB.Model(list).Association("Books").Delete(book)
}
