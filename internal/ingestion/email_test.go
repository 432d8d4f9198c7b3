package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmailText(t *testing.T) {
	t.Run("paragraphs become lines", func(t *testing.T) {
		html := "<html><body><p>20 janvier</p><p>WP</p><p>Steinway D</p></body></html>"
		text, err := ExtractEmailText(html)
		require.NoError(t, err)
		assert.Equal(t, "20 janvier\nWP\nSteinway D", text)
	})

	t.Run("br becomes newline", func(t *testing.T) {
		html := "<div>20 janvier<br>WP</div>"
		text, err := ExtractEmailText(html)
		require.NoError(t, err)
		assert.Equal(t, "20 janvier\nWP", text)
	})

	t.Run("table cells become tabs", func(t *testing.T) {
		html := "<table><tr><td>2026-02-10</td><td>WP</td><td>Concert</td></tr></table>"
		text, err := ExtractEmailText(html)
		require.NoError(t, err)
		assert.Contains(t, text, "2026-02-10\t")
		assert.Contains(t, text, "WP\t")
	})

	t.Run("quoted reply chrome removed", func(t *testing.T) {
		html := `<div>20 janvier WP</div><blockquote>ancienne demande 3 mars TM</blockquote>`
		text, err := ExtractEmailText(html)
		require.NoError(t, err)
		assert.Contains(t, text, "20 janvier WP")
		assert.NotContains(t, text, "3 mars")
	})

	t.Run("scripts and styles removed", func(t *testing.T) {
		html := `<html><head><style>p{color:red}</style></head><body><script>var x=1;</script><p>WP</p></body></html>`
		text, err := ExtractEmailText(html)
		require.NoError(t, err)
		assert.Equal(t, "WP", text)
	})
}
