package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/pkg/extract"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

type DocumentStore interface {
	Create(doc *model.Document) error
	ListByUserID(userID string) ([]model.Document, error)
}

// DocumentService handles document uploads: extraction, chunking, and
// persistence. No document row is written unless extraction and chunking
// succeed in full.
type DocumentService struct {
	docRepo DocumentStore
	chunker *rag.Chunker
	logger  *zap.Logger
}

func NewDocumentService(docRepo DocumentStore, chunker *rag.Chunker, logger *zap.Logger) *DocumentService {
	if chunker == nil {
		chunker = rag.NewChunker(rag.DefaultChunkSizeTokens, rag.DefaultChunkOverlapTokens)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		docRepo: docRepo,
		chunker: chunker,
		logger:  logger,
	}
}

type UploadInput struct {
	UserID      string
	Filename    string
	ContentType string
	Content     []byte
}

type UploadResult struct {
	DocumentID    string    `json:"document_id"`
	Filename      string    `json:"filename"`
	ChunksCreated int       `json:"chunks_created"`
	CreatedAt     time.Time `json:"created_at"`
}

// Upload extracts text from the payload, chunks it, and persists the
// document with its chunk list. Returns extract.ErrUnsupportedFormat or
// extract.ErrExtractionFailed for rejected payloads.
func (s *DocumentService) Upload(input UploadInput) (*UploadResult, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, ErrInvalidInput
	}

	text, err := extract.Text(input.Content, input.ContentType)
	if err != nil {
		return nil, err
	}

	chunks := s.chunker.Split(text)

	doc := &model.Document{
		ID:       uuid.NewString(),
		UserID:   input.UserID,
		Filename: filename,
	}
	// Raw content is retained for plain-text uploads only.
	if input.ContentType == extract.ContentTypeText {
		doc.Content = text
	}
	if err := doc.SetChunks(chunks); err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}

	s.logger.Info("document processed",
		zap.String("document_id", doc.ID),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
	)

	return &UploadResult{
		DocumentID:    doc.ID,
		Filename:      doc.Filename,
		ChunksCreated: len(chunks),
		CreatedAt:     doc.CreatedAt,
	}, nil
}

type DocumentListItem struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// List returns the user's documents with their chunk counts.
func (s *DocumentService) List(userID string) ([]DocumentListItem, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	docs, err := s.docRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		chunks, err := doc.ChunkList()
		if err != nil {
			s.logger.Warn("decode stored chunks failed",
				zap.String("document_id", doc.ID),
				zap.Error(err),
			)
		}
		items = append(items, DocumentListItem{
			ID:         doc.ID,
			Filename:   doc.Filename,
			ChunkCount: len(chunks),
			CreatedAt:  doc.CreatedAt,
		})
	}
	return items, nil
}
