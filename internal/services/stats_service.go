package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
)

// StatsCache stores computed stats payloads per user. Invalidate drops every
// entry of the user at once.
//
// Load reports the cache version it looked at, and Store writes under that
// version. A payload computed before an Invalidate therefore lands on a
// version nobody reads anymore.
type StatsCache interface {
	Load(ctx context.Context, userID uint, key string, dest any) (version int64, found bool, err error)
	Store(ctx context.Context, userID uint, version int64, key string, value any) error
	Invalidate(ctx context.Context, userID uint) error
}

type StatsSessionReader interface {
	ListCompleted(userID uint) ([]models.FastingSession, error)
}

type StatsSettingsReader interface {
	FindByUserID(userID uint) (models.UserSettings, bool, error)
}

type StatsService struct {
	sessions StatsSessionReader
	settings StatsSettingsReader
	cache    StatsCache
}

func NewStatsService(sessions StatsSessionReader, settings StatsSettingsReader, cache StatsCache) *StatsService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &StatsService{
		sessions: sessions,
		settings: settings,
		cache:    cache,
	}
}

// Summary returns nil when the user has no completed sessions.
func (service *StatsService) Summary(ctx context.Context, userID uint, now time.Time, location *time.Location) (*FastingStats, error) {
	key := summaryCacheKey(now, location)
	var cached FastingStats
	version, found, cacheable := service.loadCached(ctx, userID, key, &cached)
	if found {
		return &cached, nil
	}

	sessions, err := service.sessions.ListCompleted(userID)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(sessions, now, location)
	if stats != nil && cacheable {
		service.storeCached(ctx, userID, version, key, stats)
	}
	return stats, nil
}

func (service *StatsService) Charts(ctx context.Context, userID uint, rangeDays int, now time.Time, location *time.Location) (ChartData, error) {
	rangeDays = NormalizeChartRange(rangeDays)
	key := chartsCacheKey(rangeDays, now, location)
	var cached ChartData
	version, found, cacheable := service.loadCached(ctx, userID, key, &cached)
	if found {
		return cached, nil
	}

	sessions, err := service.sessions.ListCompleted(userID)
	if err != nil {
		return ChartData{}, err
	}
	var defaultGoal *int
	if service.settings != nil {
		settings, found, err := service.settings.FindByUserID(userID)
		if err != nil {
			return ChartData{}, err
		}
		if found {
			defaultGoal = settings.DefaultGoalMinutes
		}
	}

	data := BuildChartData(sessions, rangeDays, defaultGoal, now, location)
	if cacheable {
		service.storeCached(ctx, userID, version, key, data)
	}
	return data, nil
}

func (service *StatsService) Invalidate(ctx context.Context, userID uint) {
	if err := service.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("stats cache invalidate failed for user %d: %v", userID, err)
	}
}

// loadCached reports cacheable=false when the cache failed. Nothing is stored
// for that request.
func (service *StatsService) loadCached(ctx context.Context, userID uint, key string, dest any) (int64, bool, bool) {
	version, found, err := service.cache.Load(ctx, userID, key, dest)
	if err != nil {
		log.Printf("stats cache load failed for user %d: %v", userID, err)
		return 0, false, false
	}
	return version, found, true
}

func (service *StatsService) storeCached(ctx context.Context, userID uint, version int64, key string, value any) {
	if err := service.cache.Store(ctx, userID, version, key, value); err != nil {
		log.Printf("stats cache store failed for user %d: %v", userID, err)
	}
}

func summaryCacheKey(now time.Time, location *time.Location) string {
	return "summary:" + DateAtLocation(now, location).Format("2006-01-02")
}

func chartsCacheKey(rangeDays int, now time.Time, location *time.Location) string {
	return fmt.Sprintf("charts:%d:%s", rangeDays, DateAtLocation(now, location).Format("2006-01-02"))
}

type noopStatsCache struct{}

func (noopStatsCache) Load(context.Context, uint, string, any) (int64, bool, error) {
	return 0, false, nil
}

func (noopStatsCache) Store(context.Context, uint, int64, string, any) error { return nil }

func (noopStatsCache) Invalidate(context.Context, uint) error { return nil }
