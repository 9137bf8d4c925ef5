package services

import (
	"regexp"
	"strings"

	"github.com/terraincognita07/fasttrack/internal/models"
)

const (
	FieldTheme              = "theme"
	FieldDefaultGoalMinutes = "defaultGoalMinutes"
	FieldReminderTime       = "reminderTime"
	FieldMaxDuration        = "maxDurationMinutes"
)

const (
	MessageInvalidTheme        = "Theme must be light, dark or system"
	MessageInvalidReminderTime = "Reminder time must be in HH:MM format"
	MessageReminderTimeMissing = "Reminder time is required when reminders are enabled"
	MessageMaxDurationOutRange = "Max duration must be between 1 and 72 hours"
)

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// NormalizeTheme lower-cases the theme and reports whether it is known.
func NormalizeTheme(raw string) (string, bool) {
	theme := strings.ToLower(strings.TrimSpace(raw))
	switch theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
		return theme, true
	default:
		return "", false
	}
}

func ValidateReminderTime(raw string) ValidationResult {
	if !reminderTimePattern.MatchString(strings.TrimSpace(raw)) {
		return Rejected(FieldReminderTime, MessageInvalidReminderTime)
	}
	return Admissible()
}

func ValidateMaxDurationMinutes(minutes int) ValidationResult {
	if !IsValidGoalMinutes(minutes) {
		return Rejected(FieldMaxDuration, MessageMaxDurationOutRange)
	}
	return Admissible()
}

func validateOptionalDefaultGoal(minutes *int) ValidationResult {
	if minutes == nil {
		return Admissible()
	}
	if !IsValidGoalMinutes(*minutes) {
		return Rejected(FieldDefaultGoalMinutes, MessageGoalMinutesOutRange)
	}
	return Admissible()
}
