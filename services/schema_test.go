package services

import (
	"testing"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
)

// The schema must migrate and accept rows on any GORM dialect: ID defaults
// live in the create paths, not in database-specific column defaults.
func TestSchema_MigratesAndCreatesEveryModel(t *testing.T) {
	db := newTestDB(t)

	user := models.User{ID: uuid.NewString(), Name: "S", Email: "s@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	now := time.Now().UTC()
	rows := []interface{}{
		&models.CourseProgress{ID: uuid.NewString(), UserID: user.ID, CourseID: "course-1"},
		&models.UserProgress{ID: uuid.NewString(), UserID: user.ID},
		&models.Achievement{ID: uuid.NewString(), Code: "test-badge", Name: "Test Badge"},
		&models.UserAchievement{ID: uuid.NewString(), UserID: user.ID, AchievementID: uuid.NewString()},
		&models.DailyActivity{ID: uuid.NewString(), UserID: user.ID, ActivityDate: now},
		&models.Conversation{ID: uuid.NewString(), LastUpdated: now},
		&models.ConversationParticipant{ID: uuid.NewString(), ConversationID: uuid.NewString(), UserID: user.ID},
		&models.Message{ID: uuid.NewString(), ConversationID: uuid.NewString(), SenderID: user.ID, Text: "hi"},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create %T: %v", row, err)
		}
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Role != models.RoleStudent {
		t.Fatalf("expected default student role, got %q", reloaded.Role)
	}
}
