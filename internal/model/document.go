package model

import (
	"encoding/json"
	"time"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

// Document is a user-uploaded grounding source. Its chunk list is produced
// once at upload time and stored as JSON for portability; chunks are
// immutable after creation. Content holds the raw text for plain-text
// uploads only.
type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Filename  string    `gorm:"size:500;not null" json:"filename"`
	Content   string    `gorm:"type:longtext" json:"-"`
	Chunks    string    `gorm:"type:longtext" json:"-"` // JSON array of rag.Chunk
	CreatedAt time.Time `json:"created_at"`
}

// ChunkList parses the stored chunk JSON.
func (d *Document) ChunkList() ([]rag.Chunk, error) {
	if d.Chunks == "" {
		return nil, nil
	}
	var chunks []rag.Chunk
	if err := json.Unmarshal([]byte(d.Chunks), &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// SetChunks stores the chunk list as JSON.
func (d *Document) SetChunks(chunks []rag.Chunk) error {
	b, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	d.Chunks = string(b)
	return nil
}
