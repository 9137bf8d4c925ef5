package services

import (
	"context"
	"log"
	"strings"

	"github.com/terraincognita07/fasttrack/internal/models"
)

type SettingsRepository interface {
	FindByUserID(userID uint) (models.UserSettings, bool, error)
	UpdateByUserID(userID uint, updates map[string]any) error
}

type AccountRepository interface {
	DeleteAccountAndRelatedData(userID uint) error
}

type ReminderUpdate struct {
	Enabled bool
	Time    *string
}

type SettingsService struct {
	settings SettingsRepository
	accounts AccountRepository
	cache    StatsCache
}

func NewSettingsService(settings SettingsRepository, accounts AccountRepository, cache StatsCache) *SettingsService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &SettingsService{
		settings: settings,
		accounts: accounts,
		cache:    cache,
	}
}

// Load returns the stored settings, or the defaults when none exist yet.
func (service *SettingsService) Load(userID uint) (models.UserSettings, error) {
	settings, found, err := service.settings.FindByUserID(userID)
	if err != nil {
		return models.UserSettings{}, err
	}
	if !found {
		return models.DefaultUserSettings(userID), nil
	}
	if _, ok := NormalizeTheme(settings.Theme); !ok {
		settings.Theme = models.ThemeSystem
	}
	return settings, nil
}

func (service *SettingsService) Theme(userID uint) (string, error) {
	settings, err := service.Load(userID)
	if err != nil {
		return models.ThemeSystem, err
	}
	return settings.Theme, nil
}

func (service *SettingsService) UpdateTheme(userID uint, raw string) (string, error) {
	theme, ok := NormalizeTheme(raw)
	if !ok {
		return "", validationFailure(Rejected(FieldTheme, MessageInvalidTheme))
	}
	if err := service.settings.UpdateByUserID(userID, map[string]any{"theme": theme}); err != nil {
		return "", err
	}
	return theme, nil
}

// UpdateDefaultGoal stores the goal used when a fast starts without one. Nil
// clears it.
func (service *SettingsService) UpdateDefaultGoal(ctx context.Context, userID uint, minutes *int) error {
	if err := validationFailure(validateOptionalDefaultGoal(minutes)); err != nil {
		return err
	}
	if err := service.settings.UpdateByUserID(userID, map[string]any{"default_goal_minutes": minutes}); err != nil {
		return err
	}
	service.invalidate(ctx, userID)
	return nil
}

func (service *SettingsService) UpdateReminder(userID uint, update ReminderUpdate) error {
	var reminderTime *string
	if update.Time != nil && strings.TrimSpace(*update.Time) != "" {
		if err := validationFailure(ValidateReminderTime(*update.Time)); err != nil {
			return err
		}
		trimmed := strings.TrimSpace(*update.Time)
		reminderTime = &trimmed
	}
	if update.Enabled && reminderTime == nil {
		return validationFailure(Rejected(FieldReminderTime, MessageReminderTimeMissing))
	}

	return service.settings.UpdateByUserID(userID, map[string]any{
		"reminder_enabled":      update.Enabled,
		"reminder_time":         reminderTime,
		"reminder_last_sent_on": nil,
	})
}

// UpdateMaxDuration sets the threshold after which a running fast is flagged.
// Nil clears it.
func (service *SettingsService) UpdateMaxDuration(userID uint, minutes *int) error {
	if minutes != nil {
		if err := validationFailure(ValidateMaxDurationMinutes(*minutes)); err != nil {
			return err
		}
	}
	return service.settings.UpdateByUserID(userID, map[string]any{"max_duration_minutes": minutes})
}

func (service *SettingsService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := service.accounts.DeleteAccountAndRelatedData(userID); err != nil {
		return err
	}
	service.invalidate(ctx, userID)
	return nil
}

func (service *SettingsService) invalidate(ctx context.Context, userID uint) {
	if err := service.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("stats cache invalidate failed for user %d: %v", userID, err)
	}
}
