package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTabularData(t *testing.T) {
	assert.True(t, HasTabularData("a\tb"))
	assert.False(t, HasTabularData("a b"))
}

func TestParseTabular(t *testing.T) {
	window := DefaultYearWindow()

	t.Run("full spreadsheet row", func(t *testing.T) {
		line := "\t2026-02-10\tWP\tConcert\t442\tIC\tSteinway D\t14h\tNick\t"
		requests := parseTabular(line, referenceNow, window)
		require.Len(t, requests, 1)

		req := requests[0]
		assert.Equal(t, "2026-02-10", req.DateString())
		assert.Equal(t, "WP", req.Room)
		assert.Equal(t, "Concert", req.ForWho)
		assert.Equal(t, "442", req.Diapason)
		assert.Equal(t, "IC", req.Requester)
		assert.Equal(t, "Steinway D", req.Piano)
		assert.Equal(t, "14h", req.Time)
		assert.Equal(t, "tech-nick", req.TechnicianID)
		assert.InDelta(t, 1.0, req.Confidence, 1e-9)
	})

	t.Run("room code in requester column is cleared", func(t *testing.T) {
		line := "\t2026-02-10\tWP\tConcert\t442\tWP\tSteinway D\t14h"
		requests := parseTabular(line, referenceNow, window)
		require.Len(t, requests, 1)
		assert.Empty(t, requests[0].Requester)
	})

	t.Run("weekend date flagged in notes", func(t *testing.T) {
		// 2026-02-14 is a Saturday.
		line := "\t2026-02-14\tWP\tConcert\t442\tIC\tSteinway D\t14h\tNick\tclés au gardien"
		requests := parseTabular(line, referenceNow, window)
		require.Len(t, requests, 1)
		assert.Equal(t, "samedi - clés au gardien", requests[0].Notes)
	})

	t.Run("bad rows skipped without aborting the batch", func(t *testing.T) {
		text := "\tpas une date\tWP\tConcert\t442\tIC\tSteinway D\t14h\n" +
			"\t2026-02-10\tWP\tConcert\t442\tIC\tSteinway D\t14h\n" +
			"trop\tcourt"
		requests := parseTabular(text, referenceNow, window)
		require.Len(t, requests, 1)
		assert.Equal(t, "2026-02-10", requests[0].DateString())
	})

	t.Run("missing optional columns lower confidence", func(t *testing.T) {
		line := "\t2026-02-10\tWP\t\t\t\t\t14h"
		requests := parseTabular(line, referenceNow, window)
		require.Len(t, requests, 1)
		assert.InDelta(t, 0.7, requests[0].Confidence, 1e-9)
	})
}
