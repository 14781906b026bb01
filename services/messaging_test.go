package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedMessagingUser(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

func TestOpenConversation_ReusesExactParticipantSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")
	bob := seedMessagingUser(t, db, "Bob")
	carol := seedMessagingUser(t, db, "Carol")

	first, err := svc.OpenConversation(alice, []string{bob})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Same pair again, opened from the other side, must not duplicate.
	again, err := svc.OpenConversation(bob, []string{alice})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected existing conversation %s, got %s", first.ID, again.ID)
	}

	// A different set gets its own conversation.
	group, err := svc.OpenConversation(alice, []string{bob, carol})
	if err != nil {
		t.Fatalf("group open failed: %v", err)
	}
	if group.ID == first.ID {
		t.Fatalf("group conversation must be distinct from the pair")
	}

	var count int64
	if err := db.Model(&models.Conversation{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 conversations, got %d", count)
	}
}

func TestOpenConversation_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")

	if _, err := svc.OpenConversation(alice, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for solo conversation, got %v", err)
	}
	if _, err := svc.OpenConversation(alice, []string{uuid.NewString()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown participant, got %v", err)
	}
}

func TestSendMessage_RequiresParticipant(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")
	bob := seedMessagingUser(t, db, "Bob")
	mallory := seedMessagingUser(t, db, "Mallory")

	convo, err := svc.OpenConversation(alice, []string{bob})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := svc.SendMessage(convo.ID, mallory, SendMessageRequest{Text: "hi"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if _, err := svc.ListMessages(convo.ID, mallory); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on outsider read, got %v", err)
	}
	if _, err := svc.SendMessage(convo.ID, alice, SendMessageRequest{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty message, got %v", err)
	}
	if _, err := svc.SendMessage(uuid.NewString(), alice, SendMessageRequest{Text: "hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown conversation, got %v", err)
	}
}

func TestSendMessage_UpdatesInboxOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")
	bob := seedMessagingUser(t, db, "Bob")
	carol := seedMessagingUser(t, db, "Carol")

	withBob, err := svc.OpenConversation(alice, []string{bob})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	withCarol, err := svc.OpenConversation(alice, []string{carol})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Nudge the clock apart so last_updated ordering is deterministic.
	if err := db.Model(&models.Conversation{}).Where("id = ?", withCarol.ID).
		Update("last_updated", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("failed to age conversation: %v", err)
	}

	if _, err := svc.SendMessage(withBob.ID, alice, SendMessageRequest{Text: "see you at the lab"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	inbox, err := svc.ListConversations(alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(inbox))
	}
	if inbox[0].ID != withBob.ID {
		t.Fatalf("expected most recently active conversation first")
	}
	if inbox[0].LastMessageText != "see you at the lab" {
		t.Fatalf("expected denormalized last message, got %q", inbox[0].LastMessageText)
	}
}

func TestListMessages_MarksOthersSeen(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")
	bob := seedMessagingUser(t, db, "Bob")

	convo, err := svc.OpenConversation(alice, []string{bob})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := svc.SendMessage(convo.ID, alice, SendMessageRequest{Text: "first"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := svc.SendMessage(convo.ID, bob, SendMessageRequest{Text: "second"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Bob fetches: Alice's message flips to seen, his own stays as sent.
	messages, err := svc.ListMessages(convo.ID, bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "first" || messages[1].Text != "second" {
		t.Fatalf("expected oldest-first ordering, got %q then %q", messages[0].Text, messages[1].Text)
	}
	if !messages[0].Seen {
		t.Fatalf("expected the other side's message to be marked seen")
	}
	if messages[1].Seen {
		t.Fatalf("own message must not be marked seen by fetching")
	}
}

func TestReceivedSince_CursorSemantics(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessagingService(db)
	alice := seedMessagingUser(t, db, "Alice")
	bob := seedMessagingUser(t, db, "Bob")

	convo, err := svc.OpenConversation(alice, []string{bob})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	latest, err := svc.LatestReceivedAt(bob)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if !latest.IsZero() {
		t.Fatalf("expected zero cursor before any messages, got %v", latest)
	}

	sent, err := svc.SendMessage(convo.ID, alice, SendMessageRequest{
		Text:        "notes attached",
		Attachments: []models.Attachment{{URL: "/uploads/notes.pdf", Type: "application/pdf"}},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Bob sees Alice's message past the zero cursor; Alice sees nothing
	// because her own sends are excluded.
	forBob, err := svc.ReceivedSince(bob, time.Time{})
	if err != nil {
		t.Fatalf("received failed: %v", err)
	}
	if len(forBob) != 1 || forBob[0].ID != sent.ID {
		t.Fatalf("expected exactly the sent message for bob, got %d", len(forBob))
	}
	forAlice, err := svc.ReceivedSince(alice, time.Time{})
	if err != nil {
		t.Fatalf("received failed: %v", err)
	}
	if len(forAlice) != 0 {
		t.Fatalf("sender must not receive their own message, got %d", len(forAlice))
	}

	// Advancing the cursor past the message drains the feed.
	after, err := svc.ReceivedSince(bob, sent.CreatedAt)
	if err != nil {
		t.Fatalf("received failed: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("expected empty feed past the cursor, got %d", len(after))
	}
}
