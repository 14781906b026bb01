// services/message_stream.go
package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// How often the stream polls for messages newer than the cursor.
const messagePollInterval = 2 * time.Second

// StreamUserMessagesSSE pushes messages addressed to the authenticated user
// as server-sent events until the client disconnects. New messages are
// detected by polling past a created_at cursor.
func (s *MessagingService) StreamUserMessagesSSE(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authentication token",
		})
	}

	cursor, err := s.LatestReceivedAt(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open message stream",
			"cause": err.Error(),
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.Context()
	log.Printf("💬 [SSE] Message stream opened for user %s", userID)

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		if _, err := fmt.Fprint(w, "event: connected\ndata: {\"type\":\"connected\"}\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(messagePollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Printf("💬 [SSE] Message stream closed for user %s", userID)
				return
			case <-ticker.C:
				messages, err := s.ReceivedSince(userID, cursor)
				if err != nil {
					log.Printf("❌ [SSE] Message poll failed for user %s: %v", userID, err)
					continue
				}
				for i := range messages {
					payload, err := json.Marshal(messages[i])
					if err != nil {
						continue
					}
					if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload); err != nil {
						return
					}
					// Flush failure means the client went away.
					if err := w.Flush(); err != nil {
						return
					}
					if messages[i].CreatedAt.After(cursor) {
						cursor = messages[i].CreatedAt
					}
				}
			}
		}
	})
	return nil
}
