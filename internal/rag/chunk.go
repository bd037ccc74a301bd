package rag

// Chunk is one contiguous slice of a document's extracted text. Chunks are
// write-once: they are produced at upload time and persisted as part of the
// document record, then re-read for scoring. The JSON field names are part of
// the stored format and must not change.
type Chunk struct {
	// ID is the zero-based sequence index within the parent document.
	ID int `json:"id"`
	// Content is the trimmed slice text; chunks that trim to empty are
	// dropped rather than stored.
	Content string `json:"content"`
	// StartChar and EndChar are offsets into the extracted text before
	// trimming. EndChar may exceed the text length on the final chunk.
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`
	// Tokens is the estimated token count of Content.
	Tokens int `json:"tokens"`
}
