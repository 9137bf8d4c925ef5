package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
)

const DefaultTargetMinutes = 16 * 60

type Milestone struct {
	Hours   int    `json:"hours"`
	Label   string `json:"label"`
	Reached bool   `json:"reached"`
}

var fastingMilestones = []Milestone{
	{Hours: 8, Label: "Blood Sugar Drops"},
	{Hours: 12, Label: "Ketosis Starts"},
	{Hours: 14, Label: "Fat Burning"},
	{Hours: 16, Label: "Autophagy Begins"},
	{Hours: 24, Label: "Insulin Normalizes"},
}

type FastProgress struct {
	Session             models.FastingSession `json:"session"`
	ElapsedSeconds      int64                 `json:"elapsedSeconds"`
	TargetSeconds       int64                 `json:"targetSeconds"`
	RemainingSeconds    int64                 `json:"remainingSeconds"`
	ProgressPercent     float64               `json:"progressPercent"`
	GoalReached         bool                  `json:"goalReached"`
	GoalMessage         string                `json:"goalMessage,omitempty"`
	MaxDurationExceeded bool                  `json:"maxDurationExceeded"`
	Milestones          []Milestone           `json:"milestones"`
}

// BuildFastProgress describes a running fast at now. Without a goal the
// 16 hour target is used for the percentage but GoalReached stays false.
func BuildFastProgress(session models.FastingSession, maxDurationMinutes *int, now time.Time) FastProgress {
	elapsed := int64(now.Sub(session.StartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	targetMinutes := DefaultTargetMinutes
	if session.GoalMinutes != nil && *session.GoalMinutes > 0 {
		targetMinutes = *session.GoalMinutes
	}
	target := int64(targetMinutes) * 60

	progress := FastProgress{
		Session:        session,
		ElapsedSeconds: elapsed,
		TargetSeconds:  target,
		Milestones:     make([]Milestone, 0, len(fastingMilestones)),
	}

	progress.ProgressPercent = RoundToTenth(float64(elapsed) / float64(target) * 100)
	if progress.ProgressPercent > 100 {
		progress.ProgressPercent = 100
	}
	if elapsed < target {
		progress.RemainingSeconds = target - elapsed
	}

	if session.GoalMinutes != nil && elapsed >= target {
		progress.GoalReached = true
		progress.GoalMessage = GoalReachedMessage(*session.GoalMinutes)
	}
	if maxDurationMinutes != nil && *maxDurationMinutes > 0 {
		progress.MaxDurationExceeded = elapsed >= int64(*maxDurationMinutes)*60
	}

	for _, milestone := range fastingMilestones {
		milestone.Reached = elapsed >= int64(milestone.Hours)*3600
		progress.Milestones = append(progress.Milestones, milestone)
	}
	return progress
}

func GoalReachedMessage(goalMinutes int) string {
	hours := float64(goalMinutes) / 60
	if goalMinutes%60 == 0 {
		return fmt.Sprintf("You've reached your %dh fasting goal!", goalMinutes/60)
	}
	return fmt.Sprintf("You've reached your %.1fh fasting goal!", hours)
}
