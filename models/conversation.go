package models

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation groups messages between a fixed set of participants.
// LastMessageText and LastUpdated are denormalized for inbox listings.
type Conversation struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	LastMessageText string    `json:"last_message_text"`
	LastUpdated     time.Time `gorm:"index" json:"last_updated"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants"`

	Timestamps
}

// ParticipantUserIDs flattens the membership rows into user IDs.
func (c *Conversation) ParticipantUserIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant reports whether userID is part of the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ConversationParticipant is one user's membership in a conversation.
type ConversationParticipant struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ConversationID string    `gorm:"uniqueIndex:idx_convo_participant;not null" json:"conversation_id"`
	UserID         string    `gorm:"uniqueIndex:idx_convo_participant;not null" json:"user_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Attachment is a file reference carried by a message.
type Attachment struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Message is one entry in a conversation. Seen flips when a participant
// other than the sender fetches the conversation.
type Message struct {
	ID             string                          `gorm:"primaryKey;type:uuid" json:"id"`
	ConversationID string                          `gorm:"index;not null" json:"conversation_id"`
	SenderID       string                          `gorm:"not null" json:"sender_id"`
	Text           string                          `json:"text"`
	Attachments    datatypes.JSONSlice[Attachment] `json:"attachments"`
	Seen           bool                            `gorm:"default:false" json:"seen"`

	Timestamps
}
