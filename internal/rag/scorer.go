package rag

import "strings"

// ScoreChunk computes a lexical relevance score for one chunk: the sum of
// case-insensitive occurrence counts of every keyword, normalized to
// occurrences per 100 characters of chunk text. Returns 0 for an empty
// keyword list or an empty chunk.
func ScoreChunk(chunkText string, keywords []string) float64 {
	if len(chunkText) == 0 || len(keywords) == 0 {
		return 0
	}
	chunkLower := strings.ToLower(chunkText)
	total := 0
	for _, keyword := range keywords {
		total += strings.Count(chunkLower, strings.ToLower(keyword))
	}
	return float64(total) / (float64(len(chunkText)) / 100)
}
