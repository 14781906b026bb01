package models

import (
	"time"
)

// DailyActivity marks one day on which a user reported any learning progress.
// One row per (user, date); consecutive rows make up the streak.
type DailyActivity struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"uniqueIndex:idx_user_activity_date;not null" json:"user_id"`
	ActivityDate time.Time `gorm:"uniqueIndex:idx_user_activity_date;not null" json:"activity_date"`

	// StreakDay is the streak length as of this day (1 = fresh start).
	StreakDay int `gorm:"default:1" json:"streak_day"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
