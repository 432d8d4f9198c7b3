package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBlocks(t *testing.T) {
	t.Run("date lines start new blocks", func(t *testing.T) {
		text := "20 janvier\nWP\nConcert\n22 janvier\nTM\nRécital"
		blocks := SplitBlocks(text)
		require.Len(t, blocks, 2)
		assert.Equal(t, "20 janvier\nWP\nConcert", blocks[0])
		assert.Equal(t, "22 janvier\nTM\nRécital", blocks[1])
	})

	t.Run("first date line never splits", func(t *testing.T) {
		text := "20 janvier\nWP"
		blocks := SplitBlocks(text)
		require.Len(t, blocks, 1)
	})

	t.Run("pleasantries dropped", func(t *testing.T) {
		text := "Bonjour,\n20 janvier\nWP\nMerci beaucoup\nBonne journée"
		blocks := SplitBlocks(text)
		require.Len(t, blocks, 1)
		assert.Equal(t, "20 janvier\nWP", blocks[0])
	})

	t.Run("pleasantry with data is kept", func(t *testing.T) {
		text := "Bonjour, accord WP 14h30 svp"
		blocks := SplitBlocks(text)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0], "WP")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, SplitBlocks(""))
		assert.Nil(t, SplitBlocks("\n\n"))
	})
}

func TestDetectSignature(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing name",
			input:    "20 janvier\nWP\nConcert\n\nMarie Lapointe",
			expected: "Marie Lapointe",
		},
		{
			name:     "skips pleasantry and email",
			input:    "20 janvier\nWP\n\nNathalie Roy\nmerci\nnroy@pda.ca",
			expected: "Nathalie Roy",
		},
		{
			name:     "lowercase line stops the scan",
			input:    "20 janvier\nWP\n\nvoir en bas",
			expected: "",
		},
		{
			name:     "too many words",
			input:    "20 janvier\nWP\nUn Très Long Nom De Service",
			expected: "",
		},
		{
			name:     "no qualifying line",
			input:    "20 janvier 14h30",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectSignature(tt.input))
		})
	}
}
