package models

import (
	"time"

	"gorm.io/datatypes"
)

// CriteriaType is the closed set of achievement rules the evaluator understands.
// Unknown types are a no-op, not an error, so new catalog entries can ship ahead
// of evaluator support.
type CriteriaType string

const (
	CriteriaCoursesCompleted CriteriaType = "coursesCompleted"
	CriteriaStreakDays       CriteriaType = "streakDays"
	CriteriaHighScores       CriteriaType = "highScores"
)

// AchievementCriteria pairs a rule with its threshold,
// e.g. {coursesCompleted, 5} = "complete 5 courses".
type AchievementCriteria struct {
	Type  CriteriaType `json:"type"`
	Value int          `json:"value"`
}

// Achievement: static catalog entry (seeded from DefaultAchievements, admin-editable in DB)
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"` // e.g., "course-master"
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `gorm:"size:10" json:"icon"`

	Criteria datatypes.JSONType[AchievementCriteria] `json:"criteria"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: earned state per (user, achievement).
// Earned is monotonic — the evaluator never flips it back to false,
// and EarnedAt is set exactly once on the false→true transition.
type UserAchievement struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	Earned        bool       `gorm:"default:false" json:"earned"`
	EarnedAt      *time.Time `json:"earned_at,omitempty"`
}

// DefaultAchievements is the built-in catalog, upserted by code at startup.
var DefaultAchievements = []Achievement{
	{
		Name:        "First Steps",
		Description: "Completed your first course",
		Icon:        "🎯",
		Criteria:    datatypes.NewJSONType(AchievementCriteria{Type: CriteriaCoursesCompleted, Value: 1}),
	},
	{
		Name:        "Fast Learner",
		Description: "Completed 3 courses",
		Icon:        "⚡",
		Criteria:    datatypes.NewJSONType(AchievementCriteria{Type: CriteriaCoursesCompleted, Value: 3}),
	},
	{
		Name:        "Course Master",
		Description: "Completed 5 courses",
		Icon:        "🏆",
		Criteria:    datatypes.NewJSONType(AchievementCriteria{Type: CriteriaCoursesCompleted, Value: 5}),
	},
	{
		Name:        "Quiz Master",
		Description: "Scored 90%+ across 5 courses",
		Icon:        "📝",
		Criteria:    datatypes.NewJSONType(AchievementCriteria{Type: CriteriaHighScores, Value: 5}),
	},
	{
		Name:        "Perfect Attendance",
		Description: "30 consecutive learning days",
		Icon:        "🔥",
		Criteria:    datatypes.NewJSONType(AchievementCriteria{Type: CriteriaStreakDays, Value: 30}),
	},
}
