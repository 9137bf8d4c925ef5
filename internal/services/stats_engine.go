package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
)

type PeriodSummary struct {
	Count      int     `json:"count"`
	TotalHours float64 `json:"totalHours"`
}

type FastingStats struct {
	TotalHours    float64       `json:"totalHours"`
	AvgHours      float64       `json:"avgHours"`
	LongestFast   float64       `json:"longestFast"`
	GoalsMet      int           `json:"goalsMet"`
	TotalFasts    int           `json:"totalFasts"`
	CurrentStreak int           `json:"currentStreak"`
	BestStreak    int           `json:"bestStreak"`
	ThisWeek      PeriodSummary `json:"thisWeek"`
	ThisMonth     PeriodSummary `json:"thisMonth"`
}

// ComputeStats summarizes the completed sessions of one user. It returns nil
// when there is nothing to summarize. Active sessions in the input are ignored.
func ComputeStats(sessions []models.FastingSession, now time.Time, location *time.Location) *FastingStats {
	completed := completedSessions(sessions)
	if len(completed) == 0 {
		return nil
	}

	weekStart := StartOfISOWeek(now, location)
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := StartOfMonth(now, location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats := &FastingStats{TotalFasts: len(completed)}
	var weekHours, monthHours float64
	endDates := make([]time.Time, 0, len(completed))

	for _, session := range completed {
		hours := sessionHours(session)
		stats.TotalHours += hours
		if hours > stats.LongestFast {
			stats.LongestFast = hours
		}
		if sessionMetGoal(session) {
			stats.GoalsMet++
		}

		endedAt := *session.EndedAt
		if !endedAt.Before(weekStart) && endedAt.Before(weekEnd) {
			stats.ThisWeek.Count++
			weekHours += hours
		}
		if !endedAt.Before(monthStart) && endedAt.Before(monthEnd) {
			stats.ThisMonth.Count++
			monthHours += hours
		}
		endDates = append(endDates, DateAtLocation(endedAt, location))
	}

	stats.AvgHours = stats.TotalHours / float64(stats.TotalFasts)
	stats.ThisWeek.TotalHours = RoundToTenth(weekHours)
	stats.ThisMonth.TotalHours = RoundToTenth(monthHours)
	stats.CurrentStreak, stats.BestStreak = ComputeStreaks(endDates, DateAtLocation(now, location))
	return stats
}

// ComputeStreaks walks the distinct calendar dates in descending order. A gap
// of exactly one day extends a run. The current streak only counts when the
// most recent date is today.
func ComputeStreaks(dates []time.Time, today time.Time) (int, int) {
	unique := distinctDatesDescending(dates)
	if len(unique) == 0 {
		return 0, 0
	}

	best := 1
	run := 1
	current := 0
	currentOpen := sameDate(unique[0], today)
	if currentOpen {
		current = 1
	}

	for index := 1; index < len(unique); index++ {
		if isPreviousDay(unique[index], unique[index-1]) {
			run++
			if currentOpen {
				current = run
			}
		} else {
			run = 1
			currentOpen = false
		}
		if run > best {
			best = run
		}
	}

	return current, best
}

// RoundToTenth rounds half-up on the tenths digit.
func RoundToTenth(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

func StartOfISOWeek(value time.Time, location *time.Location) time.Time {
	day := DateAtLocation(value, location)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(value time.Time, location *time.Location) time.Time {
	day := DateAtLocation(value, location)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

func completedSessions(sessions []models.FastingSession) []models.FastingSession {
	completed := make([]models.FastingSession, 0, len(sessions))
	for _, session := range sessions {
		if session.EndedAt != nil {
			completed = append(completed, session)
		}
	}
	return completed
}

func sessionHours(session models.FastingSession) float64 {
	return session.Duration().Hours()
}

func sessionMetGoal(session models.FastingSession) bool {
	if session.GoalMinutes == nil || session.EndedAt == nil {
		return false
	}
	return session.Duration().Minutes() >= float64(*session.GoalMinutes)
}

func distinctDatesDescending(dates []time.Time) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	unique := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		key := date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, date)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].After(unique[j])
	})
	return unique
}

// isPreviousDay reports whether earlier is the calendar day right before later.
func isPreviousDay(earlier time.Time, later time.Time) bool {
	return sameDate(earlier.AddDate(0, 0, 1), later)
}

func sameDate(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
