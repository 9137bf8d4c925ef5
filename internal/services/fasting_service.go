package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

//go:generate mockgen -source=fasting_service.go -destination=mock_session_store_test.go -package=services

// SessionStore is the persistence surface of FastingService. Every lookup is
// scoped by user id, so a foreign session id behaves like a missing one.
type SessionStore interface {
	FindActive(userID uint) (models.FastingSession, bool, error)
	FindForUser(userID uint, sessionID string) (models.FastingSession, bool, error)
	ListForUser(userID uint) ([]models.FastingSession, error)
	ListCompleted(userID uint) ([]models.FastingSession, error)
	ListCompletedPage(userID uint, after *models.FastingSession, limit int) ([]models.FastingSession, error)
	Create(session *models.FastingSession) error
	UpdateFields(userID uint, sessionID string, updates map[string]any) error
	Delete(userID uint, sessionID string) (bool, error)
	Transaction(fn func(store SessionStore) error) error
}

type SessionSettingsReader interface {
	FindByUserID(userID uint) (models.UserSettings, bool, error)
}

type SessionPage struct {
	Data       []models.FastingSession `json:"data"`
	NextCursor *string                 `json:"nextCursor"`
	HasMore    bool                    `json:"hasMore"`
}

type FastingService struct {
	sessions SessionStore
	settings SessionSettingsReader
	cache    StatsCache
}

func NewFastingService(sessions SessionStore, settings SessionSettingsReader, cache StatsCache) *FastingService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &FastingService{
		sessions: sessions,
		settings: settings,
		cache:    cache,
	}
}

// Start opens a new fast at now. A nil goal falls back to the user's default
// goal when one is configured. An already active fast is reported before any
// problem with the goal.
func (service *FastingService) Start(ctx context.Context, userID uint, goalMinutes *int, now time.Time) (models.FastingSession, error) {
	var session models.FastingSession
	err := service.sessions.Transaction(func(store SessionStore) error {
		_, found, err := store.FindActive(userID)
		if err != nil {
			return err
		}
		if found {
			return alreadyActiveFailure()
		}

		goal, err := service.resolveStartGoal(userID, goalMinutes)
		if err != nil {
			return err
		}
		session = models.FastingSession{
			UserID:      userID,
			StartedAt:   now.UTC(),
			GoalMinutes: goal,
		}
		return store.Create(&session)
	})
	if err != nil {
		if isDuplicateKey(err) {
			return models.FastingSession{}, alreadyActiveFailure()
		}
		return models.FastingSession{}, err
	}
	return session, nil
}

func (service *FastingService) resolveStartGoal(userID uint, goalMinutes *int) (*int, error) {
	if goalMinutes == nil {
		return service.defaultGoalMinutes(userID)
	}
	if err := validationFailure(ValidateGoalMinutes(*goalMinutes)); err != nil {
		return nil, err
	}
	return goalMinutes, nil
}

func (service *FastingService) Stop(ctx context.Context, userID uint, sessionID string, now time.Time) (models.FastingSession, error) {
	var stopped models.FastingSession
	err := service.sessions.Transaction(func(store SessionStore) error {
		session, found, err := store.FindForUser(userID, sessionID)
		if err != nil {
			return err
		}
		if !found {
			return ErrSessionNotFound
		}
		if !session.IsActive() {
			return ErrFastNotActive
		}

		others, err := otherSessions(store, userID, sessionID)
		if err != nil {
			return err
		}
		endedAt := now.UTC()
		if err := validationFailure(ValidateInterval(Interval{StartedAt: session.StartedAt, EndedAt: endedAt}, others, now)); err != nil {
			return err
		}
		if err := store.UpdateFields(userID, sessionID, map[string]any{"ended_at": endedAt}); err != nil {
			return err
		}
		session.EndedAt = &endedAt
		stopped = session
		return nil
	})
	if err != nil {
		return models.FastingSession{}, err
	}
	service.invalidate(ctx, userID)
	return stopped, nil
}

func (service *FastingService) Active(userID uint) (models.FastingSession, bool, error) {
	return service.sessions.FindActive(userID)
}

// ActiveProgress returns nil when no fast is running.
func (service *FastingService) ActiveProgress(userID uint, now time.Time) (*FastProgress, error) {
	session, found, err := service.sessions.FindActive(userID)
	if err != nil || !found {
		return nil, err
	}
	var maxDuration *int
	if service.settings != nil {
		settings, ok, err := service.settings.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		if ok {
			maxDuration = settings.MaxDurationMinutes
		}
	}
	progress := BuildFastProgress(session, maxDuration, now)
	return &progress, nil
}

func (service *FastingService) AdjustActiveStart(ctx context.Context, userID uint, newStartedAt time.Time, now time.Time) (models.FastingSession, error) {
	var adjusted models.FastingSession
	err := service.sessions.Transaction(func(store SessionStore) error {
		session, found, err := store.FindActive(userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrFastNotActive
		}
		completed, err := store.ListCompleted(userID)
		if err != nil {
			return err
		}
		if err := validationFailure(ValidateActiveStartAdjustment(newStartedAt, completed, now)); err != nil {
			return err
		}
		startedAt := newStartedAt.UTC()
		if err := store.UpdateFields(userID, session.ID, map[string]any{"started_at": startedAt}); err != nil {
			return err
		}
		session.StartedAt = startedAt
		adjusted = session
		return nil
	})
	if err != nil {
		return models.FastingSession{}, err
	}
	return adjusted, nil
}

// EditSession replaces both endpoints of a completed session.
func (service *FastingService) EditSession(ctx context.Context, userID uint, sessionID string, candidate Interval, now time.Time) (models.FastingSession, error) {
	var edited models.FastingSession
	err := service.sessions.Transaction(func(store SessionStore) error {
		session, found, err := store.FindForUser(userID, sessionID)
		if err != nil {
			return err
		}
		if !found {
			return ErrSessionNotFound
		}
		if session.IsActive() {
			return ErrSessionStillActive
		}

		others, err := otherSessions(store, userID, sessionID)
		if err != nil {
			return err
		}
		if err := validationFailure(ValidateInterval(candidate, others, now)); err != nil {
			return err
		}

		startedAt := candidate.StartedAt.UTC()
		endedAt := candidate.EndedAt.UTC()
		if err := store.UpdateFields(userID, sessionID, map[string]any{
			"started_at": startedAt,
			"ended_at":   endedAt,
		}); err != nil {
			return err
		}
		session.StartedAt = startedAt
		session.EndedAt = &endedAt
		edited = session
		return nil
	})
	if err != nil {
		return models.FastingSession{}, err
	}
	service.invalidate(ctx, userID)
	return edited, nil
}

func (service *FastingService) UpdateNote(ctx context.Context, userID uint, sessionID string, raw string) (models.FastingSession, error) {
	note, result := NormalizeNote(raw)
	if err := validationFailure(result); err != nil {
		return models.FastingSession{}, err
	}

	var updated models.FastingSession
	err := service.sessions.Transaction(func(store SessionStore) error {
		session, found, err := store.FindForUser(userID, sessionID)
		if err != nil {
			return err
		}
		if !found {
			return ErrSessionNotFound
		}
		if err := store.UpdateFields(userID, sessionID, map[string]any{"notes": note}); err != nil {
			return err
		}
		session.Notes = note
		updated = session
		return nil
	})
	if err != nil {
		return models.FastingSession{}, err
	}
	return updated, nil
}

func (service *FastingService) Delete(ctx context.Context, userID uint, sessionID string) error {
	deleted, err := service.sessions.Delete(userID, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	service.invalidate(ctx, userID)
	return nil
}

// ListCompletedPage pages completed sessions newest first. The cursor is the
// id of the last session of the previous page.
func (service *FastingService) ListCompletedPage(userID uint, cursor string, pageSize int) (SessionPage, error) {
	limit := NormalizePageSize(pageSize)

	var after *models.FastingSession
	cursor = strings.TrimSpace(cursor)
	if cursor != "" {
		session, found, err := service.sessions.FindForUser(userID, cursor)
		if err != nil {
			return SessionPage{}, err
		}
		if !found || session.IsActive() {
			return SessionPage{}, ErrInvalidCursor
		}
		after = &session
	}

	rows, err := service.sessions.ListCompletedPage(userID, after, limit+1)
	if err != nil {
		return SessionPage{}, err
	}

	page := SessionPage{Data: rows}
	if len(rows) > limit {
		page.Data = rows[:limit]
		page.HasMore = true
		next := page.Data[limit-1].ID
		page.NextCursor = &next
	}
	if page.Data == nil {
		page.Data = []models.FastingSession{}
	}
	return page, nil
}

func (service *FastingService) ListCompleted(userID uint) ([]models.FastingSession, error) {
	return service.sessions.ListCompleted(userID)
}

func NormalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

func (service *FastingService) defaultGoalMinutes(userID uint) (*int, error) {
	if service.settings == nil {
		return nil, nil
	}
	settings, found, err := service.settings.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !found || settings.DefaultGoalMinutes == nil || !IsValidGoalMinutes(*settings.DefaultGoalMinutes) {
		return nil, nil
	}
	goal := *settings.DefaultGoalMinutes
	return &goal, nil
}

func (service *FastingService) invalidate(ctx context.Context, userID uint) {
	if err := service.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("stats cache invalidate failed for user %d: %v", userID, err)
	}
}

func otherSessions(store SessionStore, userID uint, sessionID string) ([]models.FastingSession, error) {
	sessions, err := store.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	others := make([]models.FastingSession, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != sessionID {
			others = append(others, session)
		}
	}
	return others, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
