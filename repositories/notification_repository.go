package repositories

import (
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Notify creates a notification. Self-notifications are dropped: a user
// liking their own post should not hear about it.
func (repo *NotificationRepository) Notify(recipientID, actorID uint, verb, targetType string, targetID uint) error {
	if recipientID == actorID {
		return nil
	}
	notification := models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Verb:        verb,
		TargetType:  targetType,
		TargetID:    targetID,
	}
	return repo.DB.Create(&notification).Error
}

// ListByRecipient returns the user's notifications, newest first.
// read filters by read state when non-nil.
func (repo *NotificationRepository) ListByRecipient(recipientID uint, read *bool) ([]models.Notification, error) {
	query := repo.DB.Preload("Actor").Where("recipient_id = ?", recipientID)
	if read != nil {
		query = query.Where("read = ?", *read)
	}
	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (repo *NotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (repo *NotificationRepository) Get(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := repo.DB.Preload("Actor").First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead sets the read flag. Already-read notifications are left
// untouched.
func (repo *NotificationRepository) MarkRead(notification *models.Notification) error {
	if notification.Read {
		return nil
	}
	notification.Read = true
	return repo.DB.Model(notification).Update("read", true).Error
}

// MarkAllRead marks every unread notification of the recipient and
// returns how many were updated.
func (repo *NotificationRepository) MarkAllRead(recipientID uint) (int64, error) {
	result := repo.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (repo *NotificationRepository) Delete(notification *models.Notification) error {
	return repo.DB.Delete(notification).Error
}
