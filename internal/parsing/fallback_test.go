package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFallback(t *testing.T) {
	window := DefaultYearWindow()

	t.Run("line per field block", func(t *testing.T) {
		block := "20 janvier\nWP\nRécital de l'OSM\n442\nSteinway D\n19h30\nMarie Lapointe"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)

		assert.Equal(t, "2026-01-20", req.DateString())
		assert.Equal(t, "WP", req.Room)
		assert.Equal(t, "Récital de l'OSM", req.ForWho)
		assert.Equal(t, "442", req.Diapason)
		assert.Equal(t, "Steinway D", req.Piano)
		assert.Equal(t, "19h30", req.Time)
		assert.Equal(t, "ML", req.Requester)
	})

	t.Run("bare requester code line", func(t *testing.T) {
		block := "20 janvier\nWP\nIC\nSteinway D"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)
		assert.Equal(t, "IC", req.Requester)
	})

	t.Run("concert label becomes the service", func(t *testing.T) {
		block := "20 janvier\nWP\n442\nConcert gala annuel"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)
		assert.Equal(t, "Concert gala annuel", req.Service)
	})

	t.Run("piano line wins over room mention on the same line", func(t *testing.T) {
		block := "20 janvier\nSteinway D du WP"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)
		assert.Equal(t, "Steinway D du WP", req.Piano)
		assert.Empty(t, req.Room)
	})

	t.Run("bare piano keyword wins over room mention too", func(t *testing.T) {
		block := "20 janvier\nWP piano droit"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)
		assert.Equal(t, "WP piano droit", req.Piano)
		assert.Empty(t, req.Room)
	})

	t.Run("occupant name not double counted as requester", func(t *testing.T) {
		block := "20 janvier\nWP\nAlexandre Tharaud\n442\nSteinway D"
		req := parseFallback(block, referenceNow, window)
		require.NotNil(t, req)
		assert.Equal(t, "Alexandre Tharaud", req.ForWho)
		assert.Empty(t, req.Requester)
	})

	t.Run("refuses a block with nothing recognizable", func(t *testing.T) {
		assert.Nil(t, parseFallback("merci\nbonne journée", referenceNow, window))
	})
}
