package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null;default:''"`
	Image     string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}
