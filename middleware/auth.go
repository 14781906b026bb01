// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"course-progress-system/models"
	"course-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

// UserContext verifies the session token and attaches the user identity
// for handlers. The token comes from the Authorization header (Bearer) or,
// for browser clients, the "token" cookie.
func UserContext(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
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
			log.Printf("❌ [USER_CTX] Invalid token on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose session role is not admin. It must run
// after UserContext.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role != models.RoleAdmin {
			log.Printf("❌ [USER_CTX] Forbidden admin access by %v on %s", c.Locals("user_id"), c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
