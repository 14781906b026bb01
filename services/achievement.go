package services

import (
	"log"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedCatalog upserts the built-in achievement definitions by code.
// Idempotent; admin edits to descriptions/icons in the DB survive restarts
// only for rows not in the built-in set.
func (s *AchievementService) SeedCatalog() error {
	for _, def := range models.DefaultAchievements {
		def.ID = uuid.NewString()
		def.Code = slug.Make(def.Name)
		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "criteria"}),
		}).Create(&def).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Evaluate checks the full catalog against the given summary and records and
// returns the user-achievement rows that newly transitioned to earned.
// Earned is monotonic: definitions that compute false are left untouched.
func (s *AchievementService) Evaluate(userID string, summary *models.UserProgress, records []models.CourseProgress) ([]models.UserAchievement, error) {
	var transitioned []models.UserAchievement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		transitioned, err = s.evaluateTx(tx, userID, summary, records)
		return err
	})
	return transitioned, err
}

func (s *AchievementService) evaluateTx(tx *gorm.DB, userID string, summary *models.UserProgress, records []models.CourseProgress) ([]models.UserAchievement, error) {
	var catalog []models.Achievement
	if err := tx.Find(&catalog).Error; err != nil {
		return nil, err
	}

	transitioned := []models.UserAchievement{}
	for _, def := range catalog {
		if !criteriaMet(def.Criteria.Data(), summary, records) {
			continue
		}

		var ua models.UserAchievement
		err := tx.Where("user_id = ? AND achievement_id = ?", userID, def.ID).First(&ua).Error
		if err == gorm.ErrRecordNotFound {
			ua = models.UserAchievement{
				ID:            uuid.NewString(),
				UserID:        userID,
				AchievementID: def.ID,
			}
		} else if err != nil {
			return nil, err
		}
		if ua.Earned {
			continue // already earned, nothing to do
		}

		now := time.Now()
		ua.Earned = true
		ua.EarnedAt = &now
		if err := tx.Save(&ua).Error; err != nil {
			return nil, err
		}
		transitioned = append(transitioned, ua)
		log.Printf("🎖️ Achievement earned: %s → %s", def.Name, userID)
	}
	return transitioned, nil
}

// criteriaMet evaluates one criteria rule. Unknown rule types are a
// forward-compatible no-op and never earn.
func criteriaMet(c models.AchievementCriteria, summary *models.UserProgress, records []models.CourseProgress) bool {
	switch c.Type {
	case models.CriteriaCoursesCompleted:
		return summary.CompletedCourses >= c.Value
	case models.CriteriaStreakDays:
		return summary.Streak >= c.Value
	case models.CriteriaHighScores:
		qualifying := 0
		for _, rec := range records {
			if len(rec.Assessments) > 0 && rec.AverageScore() >= 90 {
				qualifying++
			}
		}
		return qualifying >= c.Value
	default:
		return false
	}
}

// AchievementStatus joins a catalog entry with a user's earned state.
type AchievementStatus struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// GetUserAchievements returns the whole catalog with per-user earned flags —
// unearned entries are included so clients can render locked achievements.
func (s *AchievementService) GetUserAchievements(userID string) ([]AchievementStatus, error) {
	var catalog []models.Achievement
	if err := s.DB.Order("created_at ASC").Find(&catalog).Error; err != nil {
		return nil, err
	}

	var earned []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedByID := make(map[string]models.UserAchievement, len(earned))
	for _, ua := range earned {
		earnedByID[ua.AchievementID] = ua
	}

	statuses := make([]AchievementStatus, len(catalog))
	for i, def := range catalog {
		status := AchievementStatus{
			ID:          def.ID,
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if ua, ok := earnedByID[def.ID]; ok && ua.Earned {
			status.Earned = true
			status.EarnedAt = ua.EarnedAt
		}
		statuses[i] = status
	}
	return statuses, nil
}
