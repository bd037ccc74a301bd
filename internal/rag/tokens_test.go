package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty string floors to one", text: "", want: 1},
		{name: "short text floors to one", text: "abc", want: 1},
		{name: "exactly one token", text: "abcd", want: 1},
		{name: "two tokens", text: "abcdefgh", want: 2},
		{name: "remainder truncates", text: "abcdefg", want: 1},
		{name: "longer text", text: "the quick brown fox jumps over the lazy dog", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}
