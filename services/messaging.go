// services/messaging.go
package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"course-progress-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessagingService owns direct conversations between users: opening them,
// listing the inbox, and appending messages.
type MessagingService struct {
	DB *gorm.DB
}

func NewMessagingService(db *gorm.DB) *MessagingService {
	return &MessagingService{DB: db}
}

// OpenConversation returns the conversation with exactly the given participant
// set, creating it when none exists. The creator is always a participant even
// if omitted from the request.
func (s *MessagingService) OpenConversation(creatorID string, participantIDs []string) (*models.Conversation, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator id is required", ErrInvalidArgument)
	}

	members := dedupeIDs(append([]string{creatorID}, participantIDs...))
	if len(members) < 2 {
		return nil, fmt.Errorf("%w: a conversation needs at least two participants", ErrInvalidArgument)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("id IN ?", members).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(members)) {
		return nil, fmt.Errorf("%w: unknown participant", ErrNotFound)
	}

	existing, err := s.ListConversations(creatorID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if sameIDSet(existing[i].ParticipantUserIDs(), members) {
			return &existing[i], nil
		}
	}

	convo := models.Conversation{
		ID:          uuid.NewString(),
		LastUpdated: time.Now().UTC(),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&convo).Error; err != nil {
			return err
		}
		for _, userID := range members {
			p := models.ConversationParticipant{
				ID:             uuid.NewString(),
				ConversationID: convo.ID,
				UserID:         userID,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			convo.Participants = append(convo.Participants, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💬 Conversation %s opened with %d participants", convo.ID, len(members))
	return &convo, nil
}

// ListConversations returns the user's inbox, most recently active first.
func (s *MessagingService) ListConversations(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.last_updated DESC").
		Preload("Participants").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// ListMessages returns a conversation's messages oldest first. Fetching marks
// every message from other senders as seen.
func (s *MessagingService) ListMessages(conversationID, userID string) ([]models.Message, error) {
	if _, err := s.memberConversation(conversationID, userID); err != nil {
		return nil, err
	}

	err := s.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND seen = ?", conversationID, userID, false).
		Update("seen", true).Error
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = s.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

type SendMessageRequest struct {
	Text        string              `json:"text"`
	Attachments []models.Attachment `json:"attachments"`
}

// SendMessage appends a message and bumps the conversation's inbox entry.
// Only participants may send.
func (s *MessagingService) SendMessage(conversationID, senderID string, req SendMessageRequest) (*models.Message, error) {
	if req.Text == "" && len(req.Attachments) == 0 {
		return nil, fmt.Errorf("%w: message needs text or attachments", ErrInvalidArgument)
	}
	if _, err := s.memberConversation(conversationID, senderID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           req.Text,
		Attachments:    req.Attachments,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_message_text": req.Text,
				"last_updated":      time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💬 Message %s sent in conversation %s", msg.ID, conversationID)
	return &msg, nil
}

// ReceivedSince returns messages sent to the user by others after the cursor,
// oldest first. The live stream polls this.
func (s *MessagingService) ReceivedSince(userID string, since time.Time) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id").
		Where("cp.user_id = ? AND messages.sender_id <> ? AND messages.created_at > ?", userID, userID, since).
		Order("messages.created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestReceivedAt returns the timestamp of the newest message addressed to
// the user, or the zero time when there is none.
func (s *MessagingService) LatestReceivedAt(userID string) (time.Time, error) {
	var msg models.Message
	err := s.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id").
		Where("cp.user_id = ? AND messages.sender_id <> ?", userID, userID).
		Order("messages.created_at DESC").
		First(&msg).Error
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return msg.CreatedAt, nil
}

// memberConversation loads a conversation and checks the user belongs to it.
func (s *MessagingService) memberConversation(conversationID, userID string) (*models.Conversation, error) {
	var convo models.Conversation
	err := s.DB.Preload("Participants").First(&convo, "id = ?", conversationID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if err != nil {
		return nil, err
	}
	if !convo.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: not a participant of conversation %s", ErrForbidden, conversationID)
	}
	return &convo, nil
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
