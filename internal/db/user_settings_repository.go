package db

import (
	"errors"

	"github.com/terraincognita07/fasttrack/internal/models"
	"github.com/terraincognita07/fasttrack/internal/services"
	"gorm.io/gorm"
)

type UserSettingsRepository struct {
	database *gorm.DB
}

func NewUserSettingsRepository(database *gorm.DB) *UserSettingsRepository {
	return &UserSettingsRepository{database: database}
}

func (repo *UserSettingsRepository) FindByUserID(userID uint) (models.UserSettings, bool, error) {
	var settings models.UserSettings
	err := repo.database.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserSettings{}, false, nil
	}
	if err != nil {
		return models.UserSettings{}, false, err
	}
	return settings, true, nil
}

// UpdateByUserID applies updates to the settings row, creating the default
// row first for users that predate it.
func (repo *UserSettingsRepository) UpdateByUserID(userID uint, updates map[string]any) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		defaults := models.DefaultUserSettings(userID)
		if err := tx.Where("user_id = ?", userID).FirstOrCreate(&defaults).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserSettings{}).Where("user_id = ?", userID).Updates(updates).Error
	})
}

// ListReminderTargets pairs every user with their settings. Users without a
// settings row get the defaults.
func (repo *UserSettingsRepository) ListReminderTargets() ([]services.ReminderTarget, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	rows := make([]models.UserSettings, 0, len(users))
	if err := repo.database.Find(&rows).Error; err != nil {
		return nil, err
	}

	byUser := make(map[uint]models.UserSettings, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = row
	}

	targets := make([]services.ReminderTarget, 0, len(users))
	for _, user := range users {
		settings, ok := byUser[user.ID]
		if !ok {
			settings = models.DefaultUserSettings(user.ID)
		}
		targets = append(targets, services.ReminderTarget{User: user, Settings: settings})
	}
	return targets, nil
}

func (repo *UserSettingsRepository) MarkReminderSent(userID uint, day string) error {
	return repo.database.Model(&models.UserSettings{}).
		Where("user_id = ?", userID).
		Update("reminder_last_sent_on", day).Error
}
