package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "drops stop-words and short tokens",
			query: "What is the capital of France?",
			want:  []string{"capital", "france"},
		},
		{
			name:  "strips surrounding punctuation",
			query: "Hello, world!! Tell me about databases.",
			want:  []string{"hello", "world", "tell", "databases"},
		},
		{
			name:  "preserves order and duplicates",
			query: "database database indexing",
			want:  []string{"database", "database", "indexing"},
		},
		{
			name:  "stop-words only",
			query: "what is this about",
			want:  nil,
		},
		{
			name:  "short tokens only",
			query: "go is ok",
			want:  nil,
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
		{
			name:  "lowercases input",
			query: "KUBERNETES Deployment",
			want:  []string{"kubernetes", "deployment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.query))
		})
	}
}
