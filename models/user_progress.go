package models

import (
	"gorm.io/datatypes"
)

// UserProgress is the per-user rollup of all course records (denormalized for performance).
// Fully recomputed from the CourseProgress set on every report — never patched incrementally.
type UserProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// Derived counters
	EnrolledCourses  int     `json:"enrolled_courses" gorm:"default:0"`
	CompletedCourses int     `json:"completed_courses" gorm:"default:0"`
	InProgress       int     `json:"in_progress" gorm:"default:0"`
	CompletionRate   int     `json:"completion_rate" gorm:"default:0"` // integer percent
	LearningHours    float64 `json:"learning_hours" gorm:"default:0"`
	AvgScore         int     `json:"avg_score" gorm:"default:0"` // integer percent

	// Streak is maintained by the streak tracker; the aggregation
	// engine only carries it across recomputes.
	Streak int `json:"streak" gorm:"default:0"`

	// Weekly buckets are fed by an external rolling-window tracker and
	// passed through untouched — never derived from record timestamps.
	WeeklyProgress datatypes.JSONSlice[int]     `json:"weekly_progress"`
	WeeklyHours    datatypes.JSONSlice[float64] `json:"weekly_hours"`

	Timestamps
}
