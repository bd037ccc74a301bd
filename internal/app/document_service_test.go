package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/pkg/extract"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
)

type fakeDocumentRepo struct {
	created []*model.Document
	listed  []model.Document
}

func (f *fakeDocumentRepo) Create(doc *model.Document) error {
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocumentRepo) ListByUserID(_ string) ([]model.Document, error) {
	return f.listed, nil
}

func TestDocumentUpload(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := NewDocumentService(repo, rag.NewChunker(1, 0), nil)

	text := "alpha bravo charlie delta"
	result, err := svc.Upload(UploadInput{
		UserID:      "u1",
		Filename:    "notes.txt",
		ContentType: extract.ContentTypeText,
		Content:     []byte(text),
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	doc := repo.created[0]
	assert.Equal(t, "u1", doc.UserID)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, text, doc.Content)
	assert.NotEmpty(t, doc.ID)

	chunks, err := doc.ChunkList()
	require.NoError(t, err)
	assert.Len(t, chunks, result.ChunksCreated)
	assert.Equal(t, doc.ID, result.DocumentID)
	assert.Greater(t, result.ChunksCreated, 1)
}

func TestDocumentUploadValidation(t *testing.T) {
	svc := NewDocumentService(&fakeDocumentRepo{}, nil, nil)

	_, err := svc.Upload(UploadInput{Filename: "a.txt", ContentType: extract.ContentTypeText})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(UploadInput{UserID: "u1", Filename: "  ", ContentType: extract.ContentTypeText})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentUploadUnsupportedType(t *testing.T) {
	repo := &fakeDocumentRepo{}
	svc := NewDocumentService(repo, nil, nil)

	_, err := svc.Upload(UploadInput{
		UserID:      "u1",
		Filename:    "slides.pptx",
		ContentType: "application/vnd.ms-powerpoint",
		Content:     []byte("binary"),
	})
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
	assert.Empty(t, repo.created)
}

func TestDocumentList(t *testing.T) {
	stored := model.Document{ID: "doc-1", Filename: "report.txt"}
	require.NoError(t, stored.SetChunks([]rag.Chunk{
		{ID: 0, Content: "first"},
		{ID: 1, Content: "second"},
	}))
	repo := &fakeDocumentRepo{listed: []model.Document{stored}}
	svc := NewDocumentService(repo, nil, nil)

	items, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "doc-1", items[0].ID)
	assert.Equal(t, "report.txt", items[0].Filename)
	assert.Equal(t, 2, items[0].ChunkCount)

	_, err = svc.List("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentListBadChunkPayload(t *testing.T) {
	repo := &fakeDocumentRepo{listed: []model.Document{
		{ID: "doc-1", Filename: "broken.txt", Chunks: strings.Repeat("{", 3)},
	}}
	svc := NewDocumentService(repo, nil, nil)

	items, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].ChunkCount)
}
