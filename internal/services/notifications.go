package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
)

const (
	NotificationDailyReminder = "daily_reminder"
	NotificationGoalReached   = "goal_reached"
	NotificationMaxDuration   = "max_duration"

	DefaultReminderInterval = time.Minute
)

type Notification struct {
	UserID  uint      `json:"userId"`
	Email   string    `json:"email"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// ReminderTarget pairs a user with the settings that drive reminders.
type ReminderTarget struct {
	User     models.User
	Settings models.UserSettings
}

type ReminderStore interface {
	ListReminderTargets() ([]ReminderTarget, error)
	MarkReminderSent(userID uint, day string) error
}

type ReminderSessionReader interface {
	FindActive(userID uint) (models.FastingSession, bool, error)
}

type ReminderService struct {
	store    ReminderStore
	sessions ReminderSessionReader
	notifier Notifier
	location *time.Location
	interval time.Duration
	now      func() time.Time

	mu           sync.Mutex
	sentForFasts map[string]fastNotices
}

// fastNotices records which one-time notices an active fast already got.
type fastNotices struct {
	userID uint
	kinds  map[string]bool
}

func NewReminderService(store ReminderStore, sessions ReminderSessionReader, notifier Notifier, location *time.Location, interval time.Duration) *ReminderService {
	if location == nil {
		location = time.Local
	}
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	return &ReminderService{
		store:        store,
		sessions:     sessions,
		notifier:     notifier,
		location:     location,
		interval:     interval,
		now:          time.Now,
		sentForFasts: make(map[string]fastNotices),
	}
}

// Start runs the reminder loop until ctx is cancelled.
func (service *ReminderService) Start(ctx context.Context) {
	if service.notifier == nil {
		return
	}

	ticker := time.NewTicker(service.interval)
	go func() {
		defer ticker.Stop()

		service.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.RunOnce(ctx)
			}
		}
	}()
}

func (service *ReminderService) RunOnce(ctx context.Context) {
	targets, err := service.store.ListReminderTargets()
	if err != nil {
		log.Printf("reminders: fetch targets failed: %v", err)
		return
	}

	now := service.now().In(service.location)
	active := make(map[string]bool)
	unknown := make(map[uint]bool)
	for _, target := range targets {
		if ctx.Err() != nil {
			return
		}
		session, found, err := service.sessions.FindActive(target.User.ID)
		if err != nil {
			log.Printf("reminders: fetch active fast failed for user %d: %v", target.User.ID, err)
			unknown[target.User.ID] = true
			continue
		}
		if found {
			active[session.ID] = true
			service.notifyActiveFast(ctx, target, session, now)
			continue
		}
		service.notifyDailyReminder(ctx, target, now)
	}
	service.forgetEndedFasts(active, unknown)
}

func (service *ReminderService) notifyActiveFast(ctx context.Context, target ReminderTarget, session models.FastingSession, now time.Time) {
	progress := BuildFastProgress(session, target.Settings.MaxDurationMinutes, now)

	if progress.GoalReached && !service.alreadySent(session.ID, NotificationGoalReached) {
		if service.send(ctx, target, NotificationGoalReached, progress.GoalMessage, now) {
			service.markSent(target.User.ID, session.ID, NotificationGoalReached)
		}
	}
	if progress.MaxDurationExceeded && !service.alreadySent(session.ID, NotificationMaxDuration) {
		hours := float64(*target.Settings.MaxDurationMinutes) / 60
		message := fmt.Sprintf("Your fast has passed the %.4gh maximum you set. Consider ending it.", hours)
		if service.send(ctx, target, NotificationMaxDuration, message, now) {
			service.markSent(target.User.ID, session.ID, NotificationMaxDuration)
		}
	}
}

func (service *ReminderService) notifyDailyReminder(ctx context.Context, target ReminderTarget, now time.Time) {
	settings := target.Settings
	if !settings.ReminderEnabled || settings.ReminderTime == nil {
		return
	}
	scheduled, err := ClockAtDate(now, *settings.ReminderTime, service.location)
	if err != nil {
		log.Printf("reminders: invalid reminder time for user %d: %v", target.User.ID, err)
		return
	}
	if now.Before(scheduled) {
		return
	}
	today := DateAtLocation(now, service.location).Format("2006-01-02")
	if settings.ReminderLastSentOn != nil && *settings.ReminderLastSentOn == today {
		return
	}

	message := fmt.Sprintf("It's %s. Time to start your fast.", formatClock(scheduled))
	if !service.send(ctx, target, NotificationDailyReminder, message, now) {
		return
	}
	if err := service.store.MarkReminderSent(target.User.ID, today); err != nil {
		log.Printf("reminders: mark reminder sent failed for user %d: %v", target.User.ID, err)
	}
}

func (service *ReminderService) send(ctx context.Context, target ReminderTarget, kind string, message string, now time.Time) bool {
	err := service.notifier.Notify(ctx, Notification{
		UserID:  target.User.ID,
		Email:   target.User.Email,
		Kind:    kind,
		Message: message,
		SentAt:  now,
	})
	if err != nil {
		log.Printf("reminders: send %s failed for user %d: %v", kind, target.User.ID, err)
		return false
	}
	return true
}

func (service *ReminderService) alreadySent(sessionID string, kind string) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	return service.sentForFasts[sessionID].kinds[kind]
}

func (service *ReminderService) markSent(userID uint, sessionID string, kind string) {
	service.mu.Lock()
	defer service.mu.Unlock()

	notices, ok := service.sentForFasts[sessionID]
	if !ok {
		notices = fastNotices{userID: userID, kinds: make(map[string]bool)}
		service.sentForFasts[sessionID] = notices
	}
	notices.kinds[kind] = true
}

// forgetEndedFasts drops notice records of fasts that are no longer active.
// Users whose active fast could not be looked up keep their records.
func (service *ReminderService) forgetEndedFasts(active map[string]bool, unknown map[uint]bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	for sessionID, notices := range service.sentForFasts {
		if active[sessionID] || unknown[notices.userID] {
			continue
		}
		delete(service.sentForFasts, sessionID)
	}
}
