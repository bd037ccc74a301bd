package model

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"size:36;not null;index" json:"conversation_id"`
	Role           string    `gorm:"size:16;not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Tokens         int       `json:"tokens"`
	SequenceNumber int       `gorm:"not null;index" json:"sequence_number"`
	Metadata       string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
