package services

import (
	"log"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

// activityDay truncates to the day bucket used for streak accounting.
func activityDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// Touch records learning activity for today and returns the current streak.
func (s *StreakService) Touch(userID string) (int, error) {
	var streak int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		streak, err = s.TouchTx(tx, userID)
		return err
	})
	return streak, err
}

// TouchTx upserts today's activity row. A second touch on the same day is a
// no-op; activity on the day after the last one extends the streak, a gap
// resets it to 1.
func (s *StreakService) TouchTx(tx *gorm.DB, userID string) (int, error) {
	today := activityDay(time.Now())

	var existing models.DailyActivity
	err := tx.Where("user_id = ? AND activity_date = ?", userID, today).First(&existing).Error
	if err == nil {
		return existing.StreakDay, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	var last models.DailyActivity
	streak := 1
	err = tx.Where("user_id = ?", userID).
		Order("activity_date DESC").
		First(&last).Error
	if err == nil && last.ActivityDate.Add(24*time.Hour).Equal(today) {
		streak = last.StreakDay + 1
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return 0, err
	}

	activity := models.DailyActivity{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityDate: today,
		StreakDay:    streak,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return 0, err
	}
	return streak, nil
}

// ExpireStale zeroes the summary streak for users with no activity yesterday
// or today. Run periodically; the next Touch starts a fresh streak at 1.
func (s *StreakService) ExpireStale() error {
	yesterday := activityDay(time.Now()).Add(-24 * time.Hour)

	res := s.DB.Model(&models.UserProgress{}).
		Where("streak <> 0").
		Where("user_id NOT IN (?)",
			s.DB.Model(&models.DailyActivity{}).
				Select("user_id").
				Where("activity_date >= ?", yesterday),
		).
		Update("streak", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🔥 Streaks expired for %d user(s)", res.RowsAffected)
	}
	return nil
}
