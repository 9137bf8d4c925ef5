package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Sessions *FastingSessionRepository
	Settings *UserSettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Sessions: NewFastingSessionRepository(database),
		Settings: NewUserSettingsRepository(database),
	}
}
