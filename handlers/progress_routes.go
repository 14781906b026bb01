// handlers/progress_routes.go
package handlers

import (
	"course-progress-system/middleware"
	"course-progress-system/models"
	"course-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, progressService *services.ProgressService, achievementService *services.AchievementService, authService *services.AuthService) {
	// 🔐 Secured routes — require an authenticated user
	securedGroup := app.Group("/s", middleware.UserContext(authService))

	// Report a progress change for one of the caller's courses.
	// Returns the freshly recomputed summary.
	securedGroup.Post("/progress/update", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CourseID string `json:"course_id"`
			services.CourseProgressDelta
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		summary, err := progressService.ReportCourseProgress(userID, req.CourseID, req.CourseProgressDelta)
		if err != nil {
			return errJSON(c, "progress update failed", err)
		}
		return c.JSON(summaryPayload(summary))
	})

	securedGroup.Get("/progress/user/:userId", func(c *fiber.Ctx) error {
		summary, err := progressService.GetSummary(c.Params("userId"))
		if err != nil {
			return errJSON(c, "failed to get progress", err)
		}
		return c.JSON(summaryPayload(summary))
	})

	securedGroup.Get("/progress/courses/:userId", func(c *fiber.Ctx) error {
		records, err := progressService.GetCourseProgress(c.Params("userId"))
		if err != nil {
			return errJSON(c, "failed to get course progress", err)
		}
		return c.JSON(records)
	})

	securedGroup.Get("/progress/achievements/:userId", func(c *fiber.Ctx) error {
		achievements, err := achievementService.GetUserAchievements(c.Params("userId"))
		if err != nil {
			return errJSON(c, "failed to get achievements", err)
		}
		return c.JSON(achievements)
	})

	// Rolling-window tracker feeds weekly buckets; the engine stores them as-is.
	securedGroup.Put("/progress/weekly/:userId", func(c *fiber.Ctx) error {
		type Req struct {
			WeeklyProgress []int     `json:"weekly_progress"`
			WeeklyHours    []float64 `json:"weekly_hours"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		summary, err := progressService.ApplyWeeklySamples(c.Params("userId"), req.WeeklyProgress, req.WeeklyHours)
		if err != nil {
			return errJSON(c, "failed to update weekly samples", err)
		}
		return c.JSON(summaryPayload(summary))
	})

	// Admin endpoints — authenticated sessions with the admin role only
	adminGroup := app.Group("/s/admin", middleware.UserContext(authService), middleware.RequireAdmin())

	// Report progress on behalf of any user (instructor tooling, backfills).
	adminGroup.Post("/progress/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID   string `json:"user_id" validate:"required"`
			CourseID string `json:"course_id" validate:"required"`
			services.CourseProgressDelta
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		summary, err := progressService.ReportCourseProgress(req.UserID, req.CourseID, req.CourseProgressDelta)
		if err != nil {
			return errJSON(c, "progress update failed", err)
		}
		return c.JSON(summaryPayload(summary))
	})

	adminGroup.Post("/progress/recompute/:userId", func(c *fiber.Ctx) error {
		summary, err := progressService.RecomputeSummary(c.Params("userId"))
		if err != nil {
			return errJSON(c, "recompute failed", err)
		}
		return c.JSON(summaryPayload(summary))
	})
}

// summaryPayload mirrors the dashboard response shape: overall rollup plus
// the weekly series.
func summaryPayload(summary *models.UserProgress) fiber.Map {
	return fiber.Map{
		"user_id": summary.UserID,
		"overall": fiber.Map{
			"enrolled_courses":  summary.EnrolledCourses,
			"completed_courses": summary.CompletedCourses,
			"in_progress":       summary.InProgress,
			"completion_rate":   summary.CompletionRate,
			"learning_hours":    summary.LearningHours,
			"streak":            summary.Streak,
			"avg_score":         summary.AvgScore,
		},
		"weekly_progress": summary.WeeklyProgress,
		"weekly_hours":    summary.WeeklyHours,
	}
}
