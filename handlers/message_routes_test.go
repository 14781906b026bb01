package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"course-progress-system/middleware"
	"course-progress-system/services"

	"github.com/gofiber/fiber/v2"
)

func TestConversations_OpenSendAndRead(t *testing.T) {
	env := newTestEnv(t)

	_, otherToken, err := env.auth.Signup(services.SignupRequest{
		Name:     "Other Student",
		Email:    "other@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	other, _, err := env.auth.VerifyToken(otherToken)
	if err != nil {
		t.Fatalf("token verify failed: %v", err)
	}

	resp := env.request(t, "POST", "/s/conversations", fiber.Map{
		"participant_ids": []string{other},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var convo struct {
		ID             string   `json:"id"`
		ParticipantIDs []string `json:"participant_ids"`
	}
	decodeJSON(t, resp, &convo)
	if len(convo.ParticipantIDs) != 2 {
		t.Fatalf("expected both participants, got %v", convo.ParticipantIDs)
	}

	// Opening the same pair from the other side returns the same conversation.
	resp = env.requestAs(t, otherToken, "POST", "/s/conversations", fiber.Map{
		"participant_ids": []string{env.userID},
	})
	var again struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &again)
	if again.ID != convo.ID {
		t.Fatalf("expected existing conversation %s, got %s", convo.ID, again.ID)
	}

	resp = env.request(t, "POST", "/s/conversations/"+convo.ID+"/messages", fiber.Map{
		"text": "welcome to the course",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = env.requestAs(t, otherToken, "GET", "/s/conversations/"+convo.ID+"/messages", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var messages []struct {
		Text string `json:"text"`
		Seen bool   `json:"seen"`
	}
	decodeJSON(t, resp, &messages)
	if len(messages) != 1 || messages[0].Text != "welcome to the course" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
	if !messages[0].Seen {
		t.Fatalf("fetching must mark the other side's message seen")
	}

	resp = env.requestAs(t, otherToken, "GET", "/s/conversations", nil)
	var inbox []struct {
		LastMessageText string `json:"last_message_text"`
	}
	decodeJSON(t, resp, &inbox)
	if len(inbox) != 1 || inbox[0].LastMessageText != "welcome to the course" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
}

func TestSendMessage_OutsiderForbidden(t *testing.T) {
	env := newTestEnv(t)

	other, _, err := env.auth.Signup(services.SignupRequest{
		Name:     "Other Student",
		Email:    "other@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, outsiderToken, err := env.auth.Signup(services.SignupRequest{
		Name:     "Outsider",
		Email:    "outsider@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	resp := env.request(t, "POST", "/s/conversations", fiber.Map{
		"participant_ids": []string{other.ID},
	})
	var convo struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &convo)

	resp = env.requestAs(t, outsiderToken, "POST", "/s/conversations/"+convo.ID+"/messages", fiber.Map{
		"text": "let me in",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-participant, got %d", resp.StatusCode)
	}
}

func TestMessageStream_AuthViaQueryToken(t *testing.T) {
	env := newTestEnv(t)

	// EventSource connections carry no headers; a bare request is rejected.
	req := httptest.NewRequest("GET", "/s/messages/stream", nil)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/s/messages/stream?token=not-a-token", nil)
	resp, err = env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.StatusCode)
	}

	// A valid query token authenticates and attaches the user identity.
	app := fiber.New()
	app.Get("/whoami", middleware.SSEAuth(env.auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	req = httptest.NewRequest("GET", "/whoami?token="+env.token, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with query token, got %d", resp.StatusCode)
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	decodeJSON(t, resp, &body)
	if body.UserID != env.userID {
		t.Fatalf("expected user %s, got %s", env.userID, body.UserID)
	}
}
