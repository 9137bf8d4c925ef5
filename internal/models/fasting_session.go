package models

import "time"

type FastingSession struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"-"`
	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
	GoalMinutes *int       `json:"goalMinutes"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

func (FastingSession) TableName() string {
	return "fasting_sessions"
}

// IsActive reports whether the session has not been stopped yet.
func (session FastingSession) IsActive() bool {
	return session.EndedAt == nil
}

// Duration is the elapsed time of a completed session. Active sessions report zero.
func (session FastingSession) Duration() time.Duration {
	if session.EndedAt == nil {
		return 0
	}
	return session.EndedAt.Sub(session.StartedAt)
}
