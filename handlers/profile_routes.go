// handlers/profile_routes.go
package handlers

import (
	"course-progress-system/middleware"
	"course-progress-system/services"
	"course-progress-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, userService *services.UserService, authService *services.AuthService) {
	securedGroup := app.Group("/s", middleware.UserContext(authService))

	securedGroup.Get("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		user, err := userService.GetByID(userID)
		if err != nil {
			return errJSON(c, "failed to get profile", err)
		}
		return c.JSON(userPayload(user))
	})

	// Avatar goes to R2 when configured, otherwise to the local uploads dir
	// served under /uploads.
	securedGroup.Post("/profile/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "avatar file is required",
				"cause": err.Error(),
			})
		}
		if !utils.IsImageUpload(fileHeader) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unsupported avatar format",
			})
		}

		var url string
		if utils.ObjectStorageEnabled() {
			url, err = utils.UploadAvatar(fileHeader, userID)
		} else {
			url, err = utils.SaveAvatarLocally(fileHeader, userID)
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "avatar upload failed",
				"cause": err.Error(),
			})
		}

		user, err := userService.UpdateAvatar(userID, url)
		if err != nil {
			return errJSON(c, "failed to save avatar", err)
		}
		return c.JSON(userPayload(user))
	})
}
