package services

import (
	"fmt"
	"testing"

	"course-progress-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.CourseProgress{},
		&models.UserProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.DailyActivity{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// newProgressStack wires the full service graph over a fresh test DB and
// returns a seeded user ID.
func newProgressStack(t *testing.T) (*gorm.DB, *ProgressService, *AchievementService, *StreakService, string) {
	t.Helper()
	db := newTestDB(t)
	achievements := NewAchievementService(db)
	streaks := NewStreakService(db)
	progress := NewProgressService(db, achievements, streaks)

	user := models.User{
		ID:           uuid.NewString(),
		Name:         "Test Student",
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return db, progress, achievements, streaks, user.ID
}

func intPtr(v int) *int                                         { return &v }
func floatPtr(v float64) *float64                               { return &v }
func strPtr(v string) *string                                   { return &v }
func assessmentsPtr(a []models.Assessment) *[]models.Assessment { return &a }
