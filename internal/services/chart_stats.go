package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
)

const (
	DefaultChartRangeDays = 7
	chartWeeklyBuckets    = 12
)

var validChartRanges = map[int]bool{7: true, 30: true, 90: true}

type DurationPoint struct {
	Date          string  `json:"date"`
	DurationHours float64 `json:"durationHours"`
}

type WeeklyPoint struct {
	WeekStart  string  `json:"weekStart"`
	TotalHours float64 `json:"totalHours"`
}

type GoalRate struct {
	Hit        int `json:"hit"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type ChartData struct {
	Duration         []DurationPoint `json:"duration"`
	Weekly           []WeeklyPoint   `json:"weekly"`
	GoalRate         GoalRate        `json:"goalRate"`
	DefaultGoalHours *float64        `json:"defaultGoalHours"`
}

// NormalizeChartRange maps anything outside 7, 30 and 90 days to 7.
func NormalizeChartRange(rangeDays int) int {
	if validChartRanges[rangeDays] {
		return rangeDays
	}
	return DefaultChartRangeDays
}

func BuildChartData(sessions []models.FastingSession, rangeDays int, defaultGoalMinutes *int, now time.Time, location *time.Location) ChartData {
	completed := completedSessions(sessions)
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].EndedAt.Before(*completed[j].EndedAt)
	})

	return ChartData{
		Duration:         buildDurationPoints(completed, NormalizeChartRange(rangeDays), now),
		Weekly:           buildWeeklyPoints(completed, now, location),
		GoalRate:         buildGoalRate(completed),
		DefaultGoalHours: defaultGoalHours(defaultGoalMinutes),
	}
}

func buildDurationPoints(completed []models.FastingSession, rangeDays int, now time.Time) []DurationPoint {
	rangeStart := now.Add(-time.Duration(rangeDays) * 24 * time.Hour)
	points := make([]DurationPoint, 0, len(completed))
	for _, session := range completed {
		if session.EndedAt.Before(rangeStart) {
			continue
		}
		points = append(points, DurationPoint{
			Date:          session.EndedAt.UTC().Format(time.RFC3339),
			DurationHours: RoundToTenth(sessionHours(session)),
		})
	}
	return points
}

func buildWeeklyPoints(completed []models.FastingSession, now time.Time, location *time.Location) []WeeklyPoint {
	currentWeek := StartOfISOWeek(now, location)
	firstWeek := currentWeek.AddDate(0, 0, -7*(chartWeeklyBuckets-1))

	totals := make(map[string]float64, chartWeeklyBuckets)
	for _, session := range completed {
		if session.EndedAt.Before(firstWeek) {
			continue
		}
		key := StartOfISOWeek(*session.EndedAt, location).Format("2006-01-02")
		totals[key] += sessionHours(session)
	}

	points := make([]WeeklyPoint, 0, chartWeeklyBuckets)
	for index := 0; index < chartWeeklyBuckets; index++ {
		key := firstWeek.AddDate(0, 0, 7*index).Format("2006-01-02")
		points = append(points, WeeklyPoint{WeekStart: key, TotalHours: RoundToTenth(totals[key])})
	}
	return points
}

func buildGoalRate(completed []models.FastingSession) GoalRate {
	rate := GoalRate{}
	for _, session := range completed {
		if session.GoalMinutes == nil {
			continue
		}
		rate.Total++
		elapsedMinutes := int(session.Duration() / time.Minute)
		if elapsedMinutes >= *session.GoalMinutes {
			rate.Hit++
		}
	}
	if rate.Total > 0 {
		rate.Percentage = int(math.Floor(float64(rate.Hit)/float64(rate.Total)*100 + 0.5))
	}
	return rate
}

func defaultGoalHours(minutes *int) *float64 {
	if minutes == nil || *minutes <= 0 {
		return nil
	}
	hours := float64(*minutes) / 60
	return &hours
}
