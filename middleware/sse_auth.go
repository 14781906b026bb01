// middleware/sse_auth.go
package middleware

import (
	"log"

	"course-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuth authenticates EventSource connections. Browsers cannot attach
// headers to an EventSource, so the session token rides the query string
// (falling back to the session cookie).
func SSEAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token = c.Cookies("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authentication token",
			})
		}

		userID, role, err := auth.VerifyToken(token)
		if err != nil {
			log.Printf("❌ [SSE_AUTH] Invalid token on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}
