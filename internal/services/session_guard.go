package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/fasttrack/internal/models"
)

const MaxNoteLength = 280

const (
	FieldGeneral     = ""
	FieldStartedAt   = "startedAt"
	FieldEndedAt     = "endedAt"
	FieldNote        = "note"
	FieldGoalMinutes = "goalMinutes"
)

const (
	MessageStartAfterEnd       = "Start time must be before end time"
	MessageStartInFuture       = "Start time cannot be in the future"
	MessageEndInFuture         = "End time cannot be in the future"
	MessageSessionOverlap      = "This session overlaps with another fast"
	MessageActiveStartOverlap  = "Start time overlaps with a previous fast"
	MessageFastAlreadyActive   = "A fast is already active"
	MessageNoteTooLong         = "Note must be 280 characters or less"
	MessageGoalMinutesOutRange = "Goal must be between 1 and 72 hours"
)

// ValidationResult is the outcome of a guard check. A rejected result names
// the offending field when the failure belongs to a single input.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func Admissible() ValidationResult {
	return ValidationResult{OK: true}
}

func Rejected(field string, message string) ValidationResult {
	return ValidationResult{OK: false, Field: field, Message: message}
}

// Interval is a proposed [StartedAt, EndedAt) range for a completed session.
type Interval struct {
	StartedAt time.Time
	EndedAt   time.Time
}

// ValidateInterval checks a created or edited completed session against the
// ordering rules and the user's other sessions. Checks run in a fixed order and
// the first failure wins; overlap is only inspected once ordering holds.
func ValidateInterval(candidate Interval, others []models.FastingSession, now time.Time) ValidationResult {
	if !candidate.StartedAt.Before(candidate.EndedAt) {
		return Rejected(FieldStartedAt, MessageStartAfterEnd)
	}
	if candidate.StartedAt.After(now) {
		return Rejected(FieldStartedAt, MessageStartInFuture)
	}
	if candidate.EndedAt.After(now) {
		return Rejected(FieldEndedAt, MessageEndInFuture)
	}

	for _, other := range others {
		otherEnd := effectiveSessionEnd(other, now)
		if candidate.StartedAt.Before(otherEnd) && candidate.EndedAt.After(other.StartedAt) {
			return Rejected(FieldGeneral, MessageSessionOverlap)
		}
	}
	return Admissible()
}

// ValidateActiveStartAdjustment checks a new start time for the running fast,
// whose effective interval is [newStartedAt, now).
func ValidateActiveStartAdjustment(newStartedAt time.Time, completed []models.FastingSession, now time.Time) ValidationResult {
	if newStartedAt.After(now) {
		return Rejected(FieldStartedAt, MessageStartInFuture)
	}

	for _, other := range completed {
		if other.EndedAt == nil {
			continue
		}
		if other.EndedAt.After(newStartedAt) && other.StartedAt.Before(now) {
			return Rejected(FieldStartedAt, MessageActiveStartOverlap)
		}
	}
	return Admissible()
}

func ValidateStartNewFast(hasActiveSession bool) ValidationResult {
	if hasActiveSession {
		return Rejected(FieldGeneral, MessageFastAlreadyActive)
	}
	return Admissible()
}

// NormalizeNote trims the note. A blank note normalizes to nil.
func NormalizeNote(raw string) (*string, ValidationResult) {
	note := strings.TrimSpace(raw)
	if note == "" {
		return nil, Admissible()
	}
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, Rejected(FieldNote, MessageNoteTooLong)
	}
	return &note, Admissible()
}

func ValidateGoalMinutes(minutes int) ValidationResult {
	if !IsValidGoalMinutes(minutes) {
		return Rejected(FieldGoalMinutes, MessageGoalMinutesOutRange)
	}
	return Admissible()
}

func IsValidGoalMinutes(minutes int) bool {
	return minutes >= models.MinGoalMinutes && minutes <= models.MaxGoalMinutes
}

// effectiveSessionEnd treats a running session as ending now.
func effectiveSessionEnd(session models.FastingSession, now time.Time) time.Time {
	if session.EndedAt == nil {
		return now
	}
	return *session.EndedAt
}
