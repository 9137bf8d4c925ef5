package models

import "time"

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

const (
	MinGoalMinutes = 60
	MaxGoalMinutes = 4320
)

type UserSettings struct {
	UserID             uint      `gorm:"primaryKey" json:"-"`
	Theme              string    `gorm:"not null;default:system" json:"theme"`
	DefaultGoalMinutes *int      `json:"defaultGoalMinutes"`
	ReminderEnabled    bool      `gorm:"not null;default:false" json:"reminderEnabled"`
	ReminderTime       *string   `json:"reminderTime"`
	MaxDurationMinutes *int      `json:"maxDurationMinutes"`
	ReminderLastSentOn *string   `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID: userID,
		Theme:  ThemeSystem,
	}
}
