package model

import "time"

// Conversation modes. Grounded conversations answer from attached documents;
// open conversations use the model alone.
const (
	ModeOpenChat    = "open_chat"
	ModeGroundedRAG = "grounded_rag"
)

type Conversation struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	UserID     string `gorm:"size:36;not null;index" json:"user_id"`
	Title      string `gorm:"size:500" json:"title"`
	Mode       string `gorm:"size:32;not null" json:"mode"`
	TokenCount int    `gorm:"not null;default:0" json:"token_count"`
	// LastSequence is the highest message sequence number handed out for
	// this conversation. Sequences are claimed here at turn time because
	// message rows are written asynchronously and cannot be counted.
	LastSequence int       `gorm:"not null;default:0" json:"-"`
	IsDeleted    bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConversationDocument links a grounded conversation to the documents it may
// retrieve from.
type ConversationDocument struct {
	ConversationID string `gorm:"primaryKey;size:36" json:"conversation_id"`
	DocumentID     string `gorm:"primaryKey;size:36" json:"document_id"`
}
