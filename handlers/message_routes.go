// handlers/message_routes.go
package handlers

import (
	"course-progress-system/middleware"
	"course-progress-system/models"
	"course-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMessageRoutes(app *fiber.App, messagingService *services.MessagingService, authService *services.AuthService) {
	// 🔐 Secured routes — require an authenticated user
	securedGroup := app.Group("/s", middleware.UserContext(authService))

	// Inbox: the caller's conversations, most recently active first.
	securedGroup.Get("/conversations", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		conversations, err := messagingService.ListConversations(userID)
		if err != nil {
			return errJSON(c, "failed to list conversations", err)
		}
		payload := make([]fiber.Map, 0, len(conversations))
		for i := range conversations {
			payload = append(payload, conversationPayload(&conversations[i]))
		}
		return c.JSON(payload)
	})

	// Open (or return the existing) conversation with the given participants.
	securedGroup.Post("/conversations", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			ParticipantIDs []string `json:"participant_ids"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		convo, err := messagingService.OpenConversation(userID, req.ParticipantIDs)
		if err != nil {
			return errJSON(c, "failed to open conversation", err)
		}
		return c.JSON(conversationPayload(convo))
	})

	// Fetching a conversation marks the other side's messages as seen.
	securedGroup.Get("/conversations/:id/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		messages, err := messagingService.ListMessages(c.Params("id"), userID)
		if err != nil {
			return errJSON(c, "failed to list messages", err)
		}
		return c.JSON(messages)
	})

	securedGroup.Post("/conversations/:id/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req services.SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		msg, err := messagingService.SendMessage(c.Params("id"), userID, req)
		if err != nil {
			return errJSON(c, "failed to send message", err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	})

	// Live message feed. EventSource clients authenticate via query token.
	app.Get("/s/messages/stream", middleware.SSEAuth(authService), func(c *fiber.Ctx) error {
		return messagingService.StreamUserMessagesSSE(c)
	})
}

func conversationPayload(convo *models.Conversation) fiber.Map {
	return fiber.Map{
		"id":                convo.ID,
		"participant_ids":   convo.ParticipantUserIDs(),
		"last_message_text": convo.LastMessageText,
		"last_updated":      convo.LastUpdated,
	}
}
