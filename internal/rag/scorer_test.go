package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreChunk(t *testing.T) {
	t.Run("empty inputs score zero", func(t *testing.T) {
		assert.Zero(t, ScoreChunk("", []string{"capital"}))
		assert.Zero(t, ScoreChunk("some text", nil))
		assert.Zero(t, ScoreChunk("some text", []string{}))
	})

	t.Run("normalizes per 100 characters", func(t *testing.T) {
		// Exactly 100 chars with two occurrences of the keyword.
		text := strings.Repeat("x", 86) + "capitalcapital"
		assert.InDelta(t, 2.0, ScoreChunk(text, []string{"capital"}), 1e-9)

		// Same occurrences in twice the text halves the score.
		assert.InDelta(t, 1.0, ScoreChunk(text+strings.Repeat("y", 100), []string{"capital"}), 1e-9)
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		score := ScoreChunk("CAPITAL city", []string{"Capital"})
		assert.Greater(t, score, 0.0)
	})

	t.Run("sums across keywords", func(t *testing.T) {
		text := "paris is the capital of france"
		one := ScoreChunk(text, []string{"capital"})
		both := ScoreChunk(text, []string{"capital", "france"})
		assert.InDelta(t, one*2, both, 1e-9)
	})

	t.Run("no matches score zero", func(t *testing.T) {
		assert.Zero(t, ScoreChunk("completely unrelated text", []string{"zebra"}))
	})
}
