package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDash(t *testing.T) {
	window := DefaultYearWindow()

	t.Run("four part block", func(t *testing.T) {
		block := "20 janvier en soirée - Maison symphonique - Steinway D - Accord"
		req := parseDash(block, referenceNow, window)
		require.NotNil(t, req)

		assert.Equal(t, "2026-01-20", req.DateString())
		assert.Equal(t, "en soirée", req.Time)
		assert.Equal(t, "MS", req.Room)
		assert.Equal(t, "Steinway D", req.Piano)
		assert.Equal(t, "Accord", req.Service)
		assert.InDelta(t, 1.0, req.Confidence, 1e-9)
	})

	t.Run("extra parts become notes", func(t *testing.T) {
		block := "3 mars 14h30 - WP - Yamaha CFX - Accord - apporter la lampe - clé au gardien"
		req := parseDash(block, referenceNow, window)
		require.NotNil(t, req)

		assert.Equal(t, "14h30", req.Time)
		assert.Equal(t, "apporter la lampe - clé au gardien", req.Notes)
	})

	t.Run("too few parts", func(t *testing.T) {
		assert.Nil(t, parseDash("20 janvier - WP - Accord", referenceNow, window))
	})

	t.Run("newline inside an early part", func(t *testing.T) {
		assert.Nil(t, parseDash("20 janvier\n14h - WP - Steinway - Accord", referenceNow, window))
	})

	t.Run("first part must carry a date", func(t *testing.T) {
		assert.Nil(t, parseDash("en soirée - WP - Steinway - Accord", referenceNow, window))
	})
}
