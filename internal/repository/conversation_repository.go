package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

// GetByID returns the conversation, or nil when it does not exist or has
// been soft-deleted.
func (r *ConversationRepository) GetByID(id string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conversation, nil
}

func (r *ConversationRepository) CountByUserID(userID string) (int64, error) {
	var total int64
	if err := r.db.Model(&model.Conversation{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count conversations failed: %w", err)
	}
	return total, nil
}

func (r *ConversationRepository) ListByUserID(userID string, page, limit int) ([]model.Conversation, error) {
	offset := (page - 1) * limit
	var conversations []model.Conversation
	if err := r.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

// SoftDelete flags the conversation as deleted; messages and document links
// are kept.
func (r *ConversationRepository) SoftDelete(id string) error {
	if err := r.db.Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("soft delete conversation failed: %w", err)
	}
	return nil
}

// AddTokens accumulates the conversation's running token count and touches
// updated_at.
func (r *ConversationRepository) AddTokens(id string, tokens int) error {
	if err := r.db.Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"token_count": gorm.Expr("token_count + ?", tokens),
			"updated_at":  time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("update conversation tokens failed: %w", err)
	}
	return nil
}

// ClaimSequences reserves n consecutive sequence numbers for the
// conversation under a row lock and returns the first. Message rows are
// written asynchronously by the persist worker, so counting persisted
// messages would hand two overlapping turns the same numbers.
func (r *ConversationRepository) ClaimSequences(id string, n int) (int, error) {
	var first int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conversation model.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&conversation).Error; err != nil {
			return err
		}
		first = conversation.LastSequence + 1
		return tx.Model(&model.Conversation{}).
			Where("id = ?", id).
			Update("last_sequence", conversation.LastSequence+n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("claim message sequences failed: %w", err)
	}
	return first, nil
}

func (r *ConversationRepository) AttachDocuments(conversationID string, documentIDs []string) error {
	if len(documentIDs) == 0 {
		return nil
	}
	links := make([]model.ConversationDocument, 0, len(documentIDs))
	for _, docID := range documentIDs {
		links = append(links, model.ConversationDocument{
			ConversationID: conversationID,
			DocumentID:     docID,
		})
	}
	if err := r.db.Create(&links).Error; err != nil {
		return fmt.Errorf("attach conversation documents failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) ListDocumentIDs(conversationID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&model.ConversationDocument{}).
		Where("conversation_id = ?", conversationID).
		Pluck("document_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list conversation document ids failed: %w", err)
	}
	return ids, nil
}
