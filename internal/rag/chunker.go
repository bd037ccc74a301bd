package rag

import "strings"

const (
	// DefaultChunkSizeTokens and DefaultChunkOverlapTokens control the
	// sliding window used at document upload time.
	DefaultChunkSizeTokens    = 500
	DefaultChunkOverlapTokens = 50
)

// Chunker splits extracted text into overlapping fixed-size windows. Sizes
// are expressed in tokens and converted to characters via the same 4:1 ratio
// used by EstimateTokens.
type Chunker struct {
	ChunkSize int // tokens per chunk
	Overlap   int // token overlap between consecutive chunks
}

// NewChunker returns a Chunker with the given sizes; non-positive values fall
// back to the defaults.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSizeTokens
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlapTokens
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}
}

// Split cuts text into overlapping chunks. Offsets are recorded before
// trimming; windows that trim to empty are skipped without consuming an ID.
// When overlap >= chunk size the advance is clamped to one character so the
// loop always makes progress (the defaults never hit this clamp).
func (c *Chunker) Split(text string) []Chunk {
	chunkChars := c.ChunkSize * charsPerToken
	overlapChars := c.Overlap * charsPerToken

	advance := chunkChars - overlapChars
	if advance < 1 {
		advance = 1
	}

	var chunks []Chunk
	start := 0
	for start < len(text) {
		end := start + chunkChars
		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		content := strings.TrimSpace(text[start:sliceEnd])
		if content != "" {
			chunks = append(chunks, Chunk{
				ID:        len(chunks),
				Content:   content,
				StartChar: start,
				EndChar:   end,
				Tokens:    EstimateTokens(content),
			})
		}
		start += advance
	}
	return chunks
}
