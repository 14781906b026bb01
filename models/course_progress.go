package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assessment is one graded item inside a course (quiz, project, exam).
type Assessment struct {
	Name  string `json:"name"`
	Score int    `json:"score"` // 0–100
}

// CourseProgress tracks one user's state in one course.
// Keyed by (user_id, course_id); upserted on every progress report.
type CourseProgress struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string `gorm:"uniqueIndex:idx_user_course;not null" json:"user_id"`
	CourseID   string `gorm:"uniqueIndex:idx_user_course;not null" json:"course_id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`

	// Progress == 100 means the course counts as completed in the summary.
	Progress   int     `json:"progress" gorm:"default:0"`
	HoursSpent float64 `json:"hours_spent" gorm:"default:0"`
	HoursLeft  float64 `json:"hours_left" gorm:"default:0"`

	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`

	Assessments datatypes.JSONSlice[Assessment] `json:"assessments"`

	Timestamps
}

// AverageScore returns the mean assessment score, or 0 for a course
// with no assessments (never NaN).
func (cp *CourseProgress) AverageScore() float64 {
	if len(cp.Assessments) == 0 {
		return 0
	}
	sum := 0
	for _, a := range cp.Assessments {
		sum += a.Score
	}
	return float64(sum) / float64(len(cp.Assessments))
}
