package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListByUserID(userID string) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// ListByIDs loads documents in deterministic creation order so chunk
// iteration during retrieval is reproducible.
func (r *DocumentRepository) ListByIDs(ids []string) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []model.Document
	if err := r.db.Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents by ids failed: %w", err)
	}
	return docs, nil
}

// ChunkStore adapts DocumentRepository to the retriever's read-only view of
// persisted documents.
type ChunkStore struct {
	repo *DocumentRepository
}

func NewChunkStore(repo *DocumentRepository) *ChunkStore {
	return &ChunkStore{repo: repo}
}

func (s *ChunkStore) ListByIDs(ctx context.Context, ids []string) ([]rag.StoredDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []model.Document
	if err := s.repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents by ids failed: %w", err)
	}

	stored := make([]rag.StoredDocument, 0, len(docs))
	for _, doc := range docs {
		chunks, err := doc.ChunkList()
		if err != nil {
			return nil, fmt.Errorf("decode chunks for document %s failed: %w", doc.ID, err)
		}
		stored = append(stored, rag.StoredDocument{
			Filename: doc.Filename,
			Chunks:   chunks,
		})
	}
	return stored, nil
}

var _ rag.DocumentStore = (*ChunkStore)(nil)
