package db

import (
	"strings"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CreateWithSettings inserts the user and its settings row together. The
// settings row receives the new user id.
func (repo *UserRepository) CreateWithSettings(user *models.User, settings *models.UserSettings) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(user).Error; err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return gorm.ErrDuplicatedKey
			}
			return err
		}
		settings.UserID = user.ID
		return tx.Create(settings).Error
	})
}

func (repo *UserRepository) UpdateProfile(userID uint, name string, image string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"name":  name,
		"image": image,
	}).Error
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	return repo.FindByNormalizedEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (repo *UserRepository) DeleteAccountAndRelatedData(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.FastingSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
