package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("users cannot follow themselves")

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.DB.Create(user).Error
}

func (repo *UserRepository) Save(user *models.User) error {
	return repo.DB.Save(user).Error
}

func (repo *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := repo.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := repo.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (repo *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (repo *UserRepository) List(limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := repo.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := repo.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// Follow creates a follow edge. Repeated calls are a no-op.
func (repo *UserRepository) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return repo.DB.Where(follow).FirstOrCreate(&follow).Error
}

// Unfollow removes the edge if present. Removing a missing edge is not
// an error.
func (repo *UserRepository) Unfollow(followerID, followeeID uint) error {
	return repo.DB.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

func (repo *UserRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (repo *UserRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := repo.DB.
		Joins("INNER JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (repo *UserRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := repo.DB.
		Joins("INNER JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (repo *UserRepository) FollowerCount(userID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

func (repo *UserRepository) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// Profile returns the extended profile row, creating it on first use.
func (repo *UserRepository) Profile(userID uint) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID}
	err := repo.DB.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (repo *UserRepository) SaveProfile(profile *models.UserProfile) error {
	return repo.DB.Save(profile).Error
}

// SaveToken persists the jti of a freshly issued token.
func (repo *UserRepository) SaveToken(userID uint, jti string, expiresAt time.Time) error {
	return repo.DB.Create(&models.AuthToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}).Error
}

// TokenValid reports whether the jti is still issued and unexpired.
func (repo *UserRepository) TokenValid(jti string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.AuthToken{}).
		Where("jti = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// RevokeToken deletes the jti row, invalidating the matching JWT.
func (repo *UserRepository) RevokeToken(jti string) error {
	return repo.DB.Where("jti = ?", jti).Delete(&models.AuthToken{}).Error
}

// HasPermission reports whether any of the user's groups grants the
// permission code. Staff accounts pass every check.
func (repo *UserRepository) HasPermission(user *models.User, code string) (bool, error) {
	if user.IsStaff {
		return true, nil
	}
	var count int64
	err := repo.DB.Table("permissions").
		Joins("INNER JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Joins("INNER JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ? AND permissions.code = ?", user.ID, code).
		Count(&count).Error
	return count > 0, err
}

func (repo *UserRepository) FindGroup(name string) (*models.Group, error) {
	var group models.Group
	if err := repo.DB.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (repo *UserRepository) AssignGroup(user *models.User, group *models.Group) error {
	return repo.DB.Model(user).Association("Groups").Append(group)
}

func (repo *UserRepository) RemoveGroup(user *models.User, group *models.Group) error {
	return repo.DB.Model(user).Association("Groups").Delete(group)
}

func (repo *UserRepository) GroupsOf(user *models.User) ([]models.Group, error) {
	var groups []models.Group
	err := repo.DB.Model(user).Association("Groups").Find(&groups)
	return groups, err
}
