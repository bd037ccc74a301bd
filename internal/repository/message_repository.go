package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) CountByConversationID(conversationID string) (int64, error) {
	var total int64
	if err := r.db.Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count messages failed: %w", err)
	}
	return total, nil
}

func (r *MessageRepository) ListByConversationID(conversationID string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("sequence_number ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

// ListRecentByConversationID returns the last limit messages in
// chronological order.
func (r *MessageRepository) ListRecentByConversationID(conversationID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	var messages []model.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("sequence_number DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list recent messages failed: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// LastByConversationID returns the newest message, or nil when the
// conversation has none.
func (r *MessageRepository) LastByConversationID(conversationID string) (*model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("sequence_number DESC").
		Limit(1).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("get last message failed: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}
