package db

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/fasttrack/internal/models"
	"github.com/terraincognita07/fasttrack/internal/services"
	"gorm.io/gorm"
)

type FastingSessionRepository struct {
	database *gorm.DB
}

func NewFastingSessionRepository(database *gorm.DB) *FastingSessionRepository {
	return &FastingSessionRepository{database: database}
}

// Transaction runs fn against a repository bound to a single database
// transaction. The sqlite pool holds one connection, so fn must not reach for
// the outer handle.
func (repo *FastingSessionRepository) Transaction(fn func(store services.SessionStore) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		return fn(&FastingSessionRepository{database: tx})
	})
}

func (repo *FastingSessionRepository) FindActive(userID uint) (models.FastingSession, bool, error) {
	var session models.FastingSession
	err := repo.database.
		Where("user_id = ? AND ended_at IS NULL", userID).
		Order("started_at DESC").
		First(&session).Error
	return foundSession(session, err)
}

func (repo *FastingSessionRepository) FindForUser(userID uint, sessionID string) (models.FastingSession, bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.FastingSession{}, false, nil
	}

	var session models.FastingSession
	err := repo.database.
		Where("user_id = ? AND id = ?", userID, sessionID).
		First(&session).Error
	return foundSession(session, err)
}

func (repo *FastingSessionRepository) ListForUser(userID uint) ([]models.FastingSession, error) {
	sessions := make([]models.FastingSession, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *FastingSessionRepository) ListCompleted(userID uint) ([]models.FastingSession, error) {
	sessions := make([]models.FastingSession, 0)
	if err := repo.database.
		Where("user_id = ? AND ended_at IS NOT NULL", userID).
		Order("started_at DESC, id DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCompletedPage returns completed sessions ordered newest first, strictly
// after the given session in that order. A nil after starts from the top.
func (repo *FastingSessionRepository) ListCompletedPage(userID uint, after *models.FastingSession, limit int) ([]models.FastingSession, error) {
	query := repo.database.Where("user_id = ? AND ended_at IS NOT NULL", userID)
	if after != nil {
		query = query.Where(
			"(started_at < ? OR (started_at = ? AND id < ?))",
			after.StartedAt.UTC(),
			after.StartedAt.UTC(),
			after.ID,
		)
	}

	sessions := make([]models.FastingSession, 0, limit)
	if err := query.
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *FastingSessionRepository) Create(session *models.FastingSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.StartedAt = session.StartedAt.UTC()
	if session.EndedAt != nil {
		endedAt := session.EndedAt.UTC()
		session.EndedAt = &endedAt
	}

	if err := repo.database.Create(session).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

func (repo *FastingSessionRepository) UpdateFields(userID uint, sessionID string, updates map[string]any) error {
	return repo.database.
		Model(&models.FastingSession{}).
		Where("user_id = ? AND id = ?", userID, sessionID).
		Updates(updates).Error
}

func (repo *FastingSessionRepository) Delete(userID uint, sessionID string) (bool, error) {
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, strings.TrimSpace(sessionID)).
		Delete(&models.FastingSession{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func foundSession(session models.FastingSession, err error) (models.FastingSession, bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FastingSession{}, false, nil
	}
	if err != nil {
		return models.FastingSession{}, false, err
	}
	return session, true, nil
}
