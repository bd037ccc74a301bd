package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocumentStore struct {
	docs []StoredDocument
	err  error
}

func (f *fakeDocumentStore) ListByIDs(_ context.Context, _ []string) ([]StoredDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func TestRetrieveContextNoDocuments(t *testing.T) {
	r := NewRetriever(&fakeDocumentStore{}, nil)
	out := r.RetrieveContext(context.Background(), "capital of france", nil)
	assert.Equal(t, FallbackNoDocuments, out)
}

func TestRetrieveContextStoreError(t *testing.T) {
	r := NewRetriever(&fakeDocumentStore{err: errors.New("mysql gone away")}, nil)
	out := r.RetrieveContext(context.Background(), "capital of france", []string{"doc-1"})
	assert.Equal(t, FallbackRetrievalError, out)
}

func TestRetrieveContextNoRelevantChunks(t *testing.T) {
	store := &fakeDocumentStore{docs: []StoredDocument{
		{Filename: "notes.txt", Chunks: []Chunk{
			{ID: 0, Content: "completely unrelated content"},
		}},
	}}
	r := NewRetriever(store, nil)

	out := r.RetrieveContext(context.Background(), "zebra migration", []string{"doc-1"})
	assert.Equal(t, FallbackNoRelevantInfo, out)

	// A stop-word query yields no keywords, so every chunk scores zero.
	out = r.RetrieveContext(context.Background(), "what is this", []string{"doc-1"})
	assert.Equal(t, FallbackNoRelevantInfo, out)
}

func TestRetrieveContextRanksByScore(t *testing.T) {
	store := &fakeDocumentStore{docs: []StoredDocument{
		{Filename: "geo.txt", Chunks: []Chunk{
			{ID: 0, Content: "rivers and mountains of europe"},
			{ID: 1, Content: "paris is the capital of france, the capital region"},
		}},
		{Filename: "cooking.txt", Chunks: []Chunk{
			{ID: 0, Content: "how to bake sourdough bread"},
		}},
	}}
	r := NewRetriever(store, nil)

	out := r.RetrieveContext(context.Background(), "What is the capital of France?", []string{"d1", "d2"})
	require.NotEqual(t, FallbackNoRelevantInfo, out)

	parts := strings.Split(out, "\n\n")
	require.NotEmpty(t, parts)
	assert.True(t, strings.HasPrefix(parts[0], "[Excerpt 1 from geo.txt]:\n"))
	assert.Contains(t, parts[0], "paris is the capital of france")
}

func TestRetrieveContextLimitsChunks(t *testing.T) {
	doc := StoredDocument{Filename: "big.txt"}
	for i := 0; i < 8; i++ {
		doc.Chunks = append(doc.Chunks, Chunk{ID: i, Content: "the capital is here"})
	}
	r := NewRetriever(&fakeDocumentStore{docs: []StoredDocument{doc}}, nil)

	out := r.RetrieveContext(context.Background(), "capital", []string{"d1"})
	assert.Equal(t, MaxChunksToRetrieve, strings.Count(out, "[Excerpt "))
}

func TestRetrieveContextStableTieOrder(t *testing.T) {
	store := &fakeDocumentStore{docs: []StoredDocument{
		{Filename: "first.txt", Chunks: []Chunk{{ID: 0, Content: "capital facts"}}},
		{Filename: "second.txt", Chunks: []Chunk{{ID: 0, Content: "capital facts"}}},
	}}
	r := NewRetriever(store, nil)

	out := r.RetrieveContext(context.Background(), "capital", []string{"d1", "d2"})
	firstIdx := strings.Index(out, "first.txt")
	secondIdx := strings.Index(out, "second.txt")
	require.GreaterOrEqual(t, firstIdx, 0)
	require.GreaterOrEqual(t, secondIdx, 0)
	assert.Less(t, firstIdx, secondIdx)
}
