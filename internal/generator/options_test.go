package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_CorrectLabelled(t *testing.T) {
	s := DefaultOptionSynthesizer()
	r := SeededSource(10)()

	for i := 0; i < 30; i++ {
		opts, answer := s.Synthesize(r, "the right one", []string{"w1", "w2", "w3", "w4", "w5"})
		require.Len(t, opts, 4)
		assert.Equal(t, "the right one", opts[answer])
		for label := range opts {
			assert.Contains(t, []string{"A", "B", "C", "D"}, label)
		}
	}
}

func TestSynthesize_PadsWithPlaceholder(t *testing.T) {
	s := DefaultOptionSynthesizer()

	opts, answer := s.Synthesize(SeededSource(1)(), "correct", []string{"correct", "only"})
	require.Len(t, opts, 4)
	assert.Equal(t, "correct", opts[answer])

	placeholders, only := 0, 0
	for _, text := range opts {
		switch text {
		case PlaceholderDistractor:
			placeholders++
		case "only":
			only++
		}
	}
	assert.Equal(t, 2, placeholders)
	assert.Equal(t, 1, only)
}

func TestSynthesize_AnswerPositionVaries(t *testing.T) {
	s := DefaultOptionSynthesizer()
	r := SeededSource(3)()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, answer := s.Synthesize(r, "c", []string{"x", "y", "z"})
		seen[answer] = true
	}
	assert.Len(t, seen, 4)
}
