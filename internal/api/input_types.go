package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type startFastInput struct {
	GoalMinutes *int `json:"goalMinutes" form:"goalMinutes"`
}

type adjustStartInput struct {
	StartedAt string `json:"startedAt" form:"startedAt"`
}

type editSessionInput struct {
	StartedAt string `json:"startedAt" form:"startedAt"`
	EndedAt   string `json:"endedAt" form:"endedAt"`
}

type noteInput struct {
	Note string `json:"note" form:"note"`
}

type themeInput struct {
	Theme string `json:"theme" form:"theme"`
}

type defaultGoalInput struct {
	GoalMinutes *int `json:"goalMinutes" form:"goalMinutes"`
}

type reminderInput struct {
	Enabled bool    `json:"enabled" form:"enabled"`
	Time    *string `json:"time" form:"time"`
}

type maxDurationInput struct {
	MaxDurationMinutes *int `json:"maxDurationMinutes" form:"maxDurationMinutes"`
}

type devLoginInput struct {
	Email string `json:"email" form:"email"`
}

var clientTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseClientTime accepts RFC 3339 timestamps and the offset-less values a
// datetime-local input submits, which are read in location.
func parseClientTime(raw string, location *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for index, layout := range clientTimeLayouts {
		var parsed time.Time
		var err error
		if index == 0 {
			parsed, err = time.Parse(layout, value)
		} else {
			parsed, err = time.ParseInLocation(layout, value, location)
		}
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func parsePositiveQueryInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// formOptionalMinutes maps the "none" option of a form select, submitted as
// 0, to an absent value. JSON clients send null instead.
func formOptionalMinutes(c *fiber.Ctx, minutes *int) *int {
	if minutes != nil && *minutes == 0 && isFormSubmission(c) {
		return nil
	}
	return minutes
}
