package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseProgressDelta carries the mutable fields of a progress report.
// Nil fields leave the stored record untouched; on first creation for a
// (user, course) pair, absent numeric fields default to 0 and absent
// assessments to an empty list.
type CourseProgressDelta struct {
	Title        *string              `json:"title,omitempty"`
	Instructor   *string              `json:"instructor,omitempty"`
	Progress     *int                 `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	HoursSpent   *float64             `json:"hours_spent,omitempty" validate:"omitempty,min=0"`
	HoursLeft    *float64             `json:"hours_left,omitempty" validate:"omitempty,min=0"`
	LastAccessed *time.Time           `json:"last_accessed,omitempty"`
	TargetDate   *time.Time           `json:"target_date,omitempty"`
	Assessments  *[]models.Assessment `json:"assessments,omitempty" validate:"omitempty,dive"`
}

type ProgressService struct {
	DB           *gorm.DB
	Achievements *AchievementService
	Streaks      *StreakService
}

func NewProgressService(db *gorm.DB, achievements *AchievementService, streaks *StreakService) *ProgressService {
	return &ProgressService{DB: db, Achievements: achievements, Streaks: streaks}
}

// ReportCourseProgress is the single entry point for a course progress change.
// It upserts the course record, recomputes the user summary from the full
// record set, and evaluates achievements — in that order, in one transaction,
// so every stage sees the post-write view.
func (s *ProgressService) ReportCourseProgress(userID, courseID string, delta CourseProgressDelta) (*models.UserProgress, error) {
	if userID == "" || courseID == "" {
		return nil, fmt.Errorf("%w: user_id and course_id are required", ErrInvalidArgument)
	}
	if err := validate.Struct(delta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if delta.Assessments != nil {
		for _, a := range *delta.Assessments {
			if a.Score < 0 || a.Score > 100 {
				return nil, fmt.Errorf("%w: assessment score %d out of range", ErrInvalidArgument, a.Score)
			}
		}
	}

	// Validate against the user directory
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}

	var summary *models.UserProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := upsertCourseProgress(tx, userID, courseID, delta); err != nil {
			return err
		}

		streak, err := s.Streaks.TouchTx(tx, userID)
		if err != nil {
			return err
		}

		fresh, records, err := recomputeSummaryTx(tx, userID, &streak)
		if err != nil {
			return err
		}

		if _, err := s.Achievements.evaluateTx(tx, userID, fresh, records); err != nil {
			return err
		}

		summary = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📚 Progress reported: user=%s course=%s → %d/%d completed (rate=%d%%)",
		userID, courseID, summary.CompletedCourses, summary.EnrolledCourses, summary.CompletionRate)

	return summary, nil
}

// upsertCourseProgress reads the current record (or a zero default), applies
// field-level overwrite only for fields present in the delta, and writes back.
// Explicit read-merge-write rather than relying on any driver merge behavior.
func upsertCourseProgress(tx *gorm.DB, userID, courseID string, delta CourseProgressDelta) error {
	var rec models.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		rec = models.CourseProgress{
			ID:          uuid.NewString(),
			UserID:      userID,
			CourseID:    courseID,
			Assessments: []models.Assessment{},
		}
	} else if err != nil {
		return err
	}

	if delta.Title != nil {
		rec.Title = *delta.Title
	}
	if delta.Instructor != nil {
		rec.Instructor = *delta.Instructor
	}
	if delta.Progress != nil {
		rec.Progress = *delta.Progress
	}
	if delta.HoursSpent != nil {
		rec.HoursSpent = *delta.HoursSpent
	}
	if delta.HoursLeft != nil {
		rec.HoursLeft = *delta.HoursLeft
	}
	if delta.LastAccessed != nil {
		rec.LastAccessed = delta.LastAccessed
	}
	if delta.TargetDate != nil {
		rec.TargetDate = delta.TargetDate
	}
	if delta.Assessments != nil {
		rec.Assessments = *delta.Assessments
	}

	return tx.Save(&rec).Error
}

// RecomputeSummary re-derives the summary for a user from current records and
// persists it. Safe to call at any time — it is how a partially applied report
// heals.
func (s *ProgressService) RecomputeSummary(userID string) (*models.UserProgress, error) {
	var summary *models.UserProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		fresh, _, err := recomputeSummaryTx(tx, userID, nil)
		if err != nil {
			return err
		}
		summary = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// recomputeSummaryTx rebuilds the summary row from the full course record set.
// Streak and the weekly buckets are carried over from the prior row — they are
// owned by the streak tracker and the rolling-window collaborator respectively.
// A non-nil streak overrides the carried value.
func recomputeSummaryTx(tx *gorm.DB, userID string, streak *int) (*models.UserProgress, []models.CourseProgress, error) {
	var records []models.CourseProgress
	if err := tx.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, nil, err
	}

	var summary models.UserProgress
	err := tx.Where("user_id = ?", userID).First(&summary).Error
	if err == gorm.ErrRecordNotFound {
		summary = models.UserProgress{
			ID:             uuid.NewString(),
			UserID:         userID,
			WeeklyProgress: []int{},
			WeeklyHours:    []float64{},
		}
	} else if err != nil {
		return nil, nil, err
	}

	enrolled := len(records)
	completed := 0
	learningHours := 0.0
	scoreSum := 0.0
	for _, rec := range records {
		if rec.Progress == 100 {
			completed++
		}
		learningHours += rec.HoursSpent
		scoreSum += rec.AverageScore()
	}

	summary.EnrolledCourses = enrolled
	summary.CompletedCourses = completed
	summary.InProgress = enrolled - completed
	summary.LearningHours = learningHours
	if enrolled > 0 {
		summary.CompletionRate = int(math.Round(float64(completed) / float64(enrolled) * 100))
		summary.AvgScore = int(math.Round(scoreSum / float64(enrolled)))
	} else {
		summary.CompletionRate = 0
		summary.AvgScore = 0
	}
	if streak != nil {
		summary.Streak = *streak
	}

	if err := tx.Save(&summary).Error; err != nil {
		return nil, nil, err
	}
	return &summary, records, nil
}

// GetSummary returns the persisted summary, or ErrNotFound before the first report.
func (s *ProgressService) GetSummary(userID string) (*models.UserProgress, error) {
	var summary models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&summary).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no progress for user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	return &summary, nil
}

// GetCourseProgress returns the per-course detail list (empty, not an error,
// for a user with no records).
func (s *ProgressService) GetCourseProgress(userID string) ([]models.CourseProgress, error) {
	var records []models.CourseProgress
	err := s.DB.Where("user_id = ?", userID).
		Order("last_accessed DESC NULLS LAST").
		Find(&records).Error
	return records, err
}

// ApplyWeeklySamples stores rolling-window samples supplied by the external
// tracker. The engine never derives these from record timestamps.
func (s *ProgressService) ApplyWeeklySamples(userID string, weeklyProgress []int, weeklyHours []float64) (*models.UserProgress, error) {
	for _, p := range weeklyProgress {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("%w: weekly progress %d out of range", ErrInvalidArgument, p)
		}
	}
	for _, h := range weeklyHours {
		if h < 0 {
			return nil, fmt.Errorf("%w: weekly hours must be non-negative", ErrInvalidArgument)
		}
	}

	var summary models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).First(&summary).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no progress for user %s", ErrNotFound, userID)
		}
		return nil, err
	}

	if weeklyProgress != nil {
		summary.WeeklyProgress = weeklyProgress
	}
	if weeklyHours != nil {
		summary.WeeklyHours = weeklyHours
	}
	if err := s.DB.Save(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}
