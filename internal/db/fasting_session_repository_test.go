package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
	"github.com/terraincognita07/fasttrack/internal/services"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()

	user := models.User{Email: email}
	settings := models.DefaultUserSettings(0)
	if err := repos.Users.CreateWithSettings(&user, &settings); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createCompletedSession(t *testing.T, repo *FastingSessionRepository, userID uint, startedAt time.Time, hours float64) models.FastingSession {
	t.Helper()

	endedAt := startedAt.Add(time.Duration(hours * float64(time.Hour)))
	session := models.FastingSession{UserID: userID, StartedAt: startedAt, EndedAt: &endedAt}
	if err := repo.Create(&session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func TestFastingSessionRepositoryAllowsOneActiveSessionPerUser(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")
	now := time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)

	first := models.FastingSession{UserID: owner.ID, StartedAt: now.Add(-2 * time.Hour)}
	if err := repos.Sessions.Create(&first); err != nil {
		t.Fatalf("create first active session: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated session id")
	}

	second := models.FastingSession{UserID: owner.ID, StartedAt: now.Add(-time.Hour)}
	if err := repos.Sessions.Create(&second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key for second active session, got %v", err)
	}

	foreign := models.FastingSession{UserID: other.ID, StartedAt: now.Add(-time.Hour)}
	if err := repos.Sessions.Create(&foreign); err != nil {
		t.Fatalf("expected another user to start a fast, got %v", err)
	}

	active, found, err := repos.Sessions.FindActive(owner.ID)
	if err != nil || !found {
		t.Fatalf("FindActive() = found %v err %v", found, err)
	}
	if active.ID != first.ID || !active.StartedAt.Equal(first.StartedAt) {
		t.Fatalf("unexpected active session %#v", active)
	}
}

func TestFastingSessionRepositoryScopesLookupsByUser(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")
	start := time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC)
	session := createCompletedSession(t, repos.Sessions, owner.ID, start, 16)

	if _, found, err := repos.Sessions.FindForUser(other.ID, session.ID); err != nil || found {
		t.Fatalf("expected foreign lookup to miss, found=%v err=%v", found, err)
	}
	if err := repos.Sessions.UpdateFields(other.ID, session.ID, map[string]any{"notes": "hijack"}); err != nil {
		t.Fatalf("UpdateFields() unexpected error: %v", err)
	}
	deleted, err := repos.Sessions.Delete(other.ID, session.ID)
	if err != nil || deleted {
		t.Fatalf("expected foreign delete to affect nothing, deleted=%v err=%v", deleted, err)
	}

	stored, found, err := repos.Sessions.FindForUser(owner.ID, session.ID)
	if err != nil || !found {
		t.Fatalf("FindForUser() found=%v err=%v", found, err)
	}
	if stored.Notes != nil {
		t.Fatalf("expected foreign update to be ignored, got note %q", *stored.Notes)
	}

	deleted, err = repos.Sessions.Delete(owner.ID, session.ID)
	if err != nil || !deleted {
		t.Fatalf("expected owner delete, deleted=%v err=%v", deleted, err)
	}
}

func TestFastingSessionRepositoryUpdateFieldsWritesNull(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	owner := createTestUser(t, repos, "owner@example.com")
	session := createCompletedSession(t, repos.Sessions, owner.ID, time.Date(2026, 4, 1, 20, 0, 0, 0, time.UTC), 14)

	note := "felt great"
	if err := repos.Sessions.UpdateFields(owner.ID, session.ID, map[string]any{"notes": &note}); err != nil {
		t.Fatalf("set note: %v", err)
	}
	var cleared *string
	if err := repos.Sessions.UpdateFields(owner.ID, session.ID, map[string]any{"notes": cleared}); err != nil {
		t.Fatalf("clear note: %v", err)
	}

	stored, _, err := repos.Sessions.FindForUser(owner.ID, session.ID)
	if err != nil {
		t.Fatalf("FindForUser() unexpected error: %v", err)
	}
	if stored.Notes != nil {
		t.Fatalf("expected cleared note, got %q", *stored.Notes)
	}
}

func TestFastingSessionRepositoryListCompletedPage(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	owner := createTestUser(t, repos, "owner@example.com")
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	created := make([]models.FastingSession, 0, 5)
	for day := 0; day < 5; day++ {
		created = append(created, createCompletedSession(t, repos.Sessions, owner.ID, base.AddDate(0, 0, day), 12))
	}
	active := models.FastingSession{UserID: owner.ID, StartedAt: base.AddDate(0, 0, 10)}
	if err := repos.Sessions.Create(&active); err != nil {
		t.Fatalf("create active session: %v", err)
	}

	firstPage, err := repos.Sessions.ListCompletedPage(owner.ID, nil, 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(firstPage) != 2 || firstPage[0].ID != created[4].ID || firstPage[1].ID != created[3].ID {
		t.Fatalf("unexpected first page %#v", firstPage)
	}

	secondPage, err := repos.Sessions.ListCompletedPage(owner.ID, &firstPage[1], 10)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(secondPage) != 3 || secondPage[0].ID != created[2].ID || secondPage[2].ID != created[0].ID {
		t.Fatalf("unexpected second page %#v", secondPage)
	}
	for _, session := range secondPage {
		if session.IsActive() {
			t.Fatal("expected only completed sessions in page")
		}
	}
}

func TestFastingServiceAgainstSQLite(t *testing.T) {
	repos := NewRepositories(openTestDatabase(t))
	owner := createTestUser(t, repos, "owner@example.com")
	service := services.NewFastingService(repos.Sessions, repos.Settings, nil)
	now := time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)

	started, err := service.Start(context.Background(), owner.ID, nil, now.Add(-3*time.Hour))
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	if _, err := service.Start(context.Background(), owner.ID, nil, now.Add(-2*time.Hour)); !errors.Is(err, services.ErrFastAlreadyActive) {
		t.Fatalf("expected already active, got %v", err)
	}

	stopped, err := service.Stop(context.Background(), owner.ID, started.ID, now)
	if err != nil {
		t.Fatalf("Stop() unexpected error: %v", err)
	}
	if stopped.EndedAt == nil || !stopped.EndedAt.Equal(now) {
		t.Fatalf("expected endedAt=%s, got %v", now, stopped.EndedAt)
	}

	page, err := service.ListCompletedPage(owner.ID, "", 0)
	if err != nil {
		t.Fatalf("ListCompletedPage() unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.HasMore || page.NextCursor != nil {
		t.Fatalf("unexpected page %#v", page)
	}
}
