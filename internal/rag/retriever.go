package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// MaxChunksToRetrieve is the number of top-scoring chunks injected into the
// prompt context.
const MaxChunksToRetrieve = 5

// Fallback context strings. These exact literals are part of the retrieval
// contract: retrieval never returns an error to its caller, it always
// produces a usable context string.
const (
	FallbackNoDocuments    = "No documents found."
	FallbackNoRelevantInfo = "No relevant information found in the documents."
	FallbackRetrievalError = "Error retrieving document context."
)

// StoredDocument is the retriever's read-only view of a persisted document.
type StoredDocument struct {
	Filename string
	Chunks   []Chunk
}

// DocumentStore loads persisted documents for retrieval. Implementations
// must return documents in a deterministic order for a given id list and
// return an empty slice (not an error) when no ids match.
type DocumentStore interface {
	ListByIDs(ctx context.Context, ids []string) ([]StoredDocument, error)
}

// ScoredChunk pairs a chunk with its relevance score for one retrieval call.
// It is never persisted.
type ScoredChunk struct {
	Content      string
	Score        float64
	DocumentName string
	ChunkID      int
}

// Retriever selects the most relevant chunks across a set of documents for a
// query. It holds no mutable state beyond configuration and is safe for
// concurrent use.
type Retriever struct {
	store     DocumentStore
	maxChunks int
	logger    *zap.Logger
}

func NewRetriever(store DocumentStore, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		store:     store,
		maxChunks: MaxChunksToRetrieve,
		logger:    logger,
	}
}

// RetrieveContext scores every chunk of every referenced document against the
// query's keywords and formats the top matches into a prompt-ready context
// block. Store failures and empty results degrade to the fallback strings;
// this method never fails the conversation turn.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, documentIDs []string) string {
	documents, err := r.store.ListByIDs(ctx, documentIDs)
	if err != nil {
		r.logger.Error("retrieve documents failed", zap.Error(err))
		return FallbackRetrievalError
	}
	if len(documents) == 0 {
		return FallbackNoDocuments
	}

	keywords := ExtractKeywords(query)

	var scored []ScoredChunk
	for _, doc := range documents {
		for _, chunk := range doc.Chunks {
			scored = append(scored, ScoredChunk{
				Content:      chunk.Content,
				Score:        ScoreChunk(chunk.Content, keywords),
				DocumentName: doc.Filename,
				ChunkID:      chunk.ID,
			})
		}
	}

	// Stable sort keeps the original document/chunk order among ties so
	// selection is reproducible.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	top := scored
	if len(top) > r.maxChunks {
		top = top[:r.maxChunks]
	}

	if len(top) == 0 || top[0].Score == 0 {
		return FallbackNoRelevantInfo
	}

	parts := make([]string, 0, len(top))
	for i, chunk := range top {
		parts = append(parts, fmt.Sprintf("[Excerpt %d from %s]:\n%s", i+1, chunk.DocumentName, chunk.Content))
	}
	r.logger.Info("retrieved context chunks",
		zap.Int("chunks", len(top)),
		zap.Int("documents", len(documents)),
	)
	return strings.Join(parts, "\n\n")
}
