package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoutesTabularInput(t *testing.T) {
	// A tab anywhere must route the whole input through the tabular
	// detector, even when the content would also satisfy the prose detector.
	text := "Accord du Steinway le 20 janvier\n\t2026-02-10\tWP\tConcert\t442\tIC\tSteinway D\t14h"
	requests := Parse(text, &Options{Now: referenceNow})

	require.Len(t, requests, 1)
	assert.Equal(t, "2026-02-10", requests[0].DateString())
	assert.Equal(t, "WP", requests[0].Room)
}

func TestParseChainPrecedence(t *testing.T) {
	t.Run("compact beats fallback", func(t *testing.T) {
		requests := Parse("20-jan WP Concert 442 IC Piano Steinway D 19h30", &Options{Now: referenceNow})
		require.Len(t, requests, 1)
		assert.InDelta(t, 0.85, requests[0].Confidence, 1e-9)
	})

	t.Run("dash beats natural", func(t *testing.T) {
		requests := Parse("20 janvier en soirée - WP - Steinway D - Accord", &Options{Now: referenceNow})
		require.Len(t, requests, 1)
		// The dash detector never emits the free-form warning.
		assert.NotContains(t, requests[0].Warnings, WarnFreeformDetected)
	})

	t.Run("natural claims prose", func(t *testing.T) {
		requests := Parse("Est-ce possible de faire un accord du Steinway le 20 janvier?", &Options{Now: referenceNow})
		require.Len(t, requests, 1)
		assert.Contains(t, requests[0].Warnings, WarnFreeformDetected)
	})
}

func TestParseMultipleBlocks(t *testing.T) {
	text := "Bonjour,\n" +
		"20 janvier\nWP\nRécital\n442\nSteinway D\n19h30\n" +
		"22 janvier\nTM\nThéâtre\n440\nYamaha C7\n10h\n" +
		"Merci\nNathalie Roy"
	requests := Parse(text, &Options{Now: referenceNow})

	require.Len(t, requests, 2)
	assert.Equal(t, "2026-01-20", requests[0].DateString())
	assert.Equal(t, "WP", requests[0].Room)
	assert.Equal(t, "2026-01-22", requests[1].DateString())
	assert.Equal(t, "TM", requests[1].Room)
	// Nathalie Roy signs the whole email; both requests inherit her code.
	assert.Equal(t, "NR", requests[0].Requester)
	assert.Equal(t, "NR", requests[1].Requester)
}

func TestParseAppliesSignatureToRequesterlessBlocks(t *testing.T) {
	text := "20 janvier\nWP\nRécital\n442\nSteinway D\n\nMarie Lapointe"
	requests := Parse(text, &Options{Now: referenceNow})

	require.Len(t, requests, 1)
	assert.Equal(t, "ML", requests[0].Requester)
}

func TestParseLowConfidenceWarning(t *testing.T) {
	// A block the fallback claims with only a room and occupant stays well
	// under the threshold.
	text := "WP\nRécital privé"
	requests := Parse(text, &Options{Now: referenceNow})

	require.Len(t, requests, 1)
	assert.Less(t, requests[0].Confidence, 0.5)
	assert.Contains(t, requests[0].Warnings, WarnLowConfidence)
}

func TestParseRoomAsRequesterGuard(t *testing.T) {
	// A signature-like trailing room code must never survive as a requester.
	text := "20 janvier\nWP\nRécital\n442\nSteinway D\n\nTM"
	requests := Parse(text, &Options{Now: referenceNow})

	require.Len(t, requests, 1)
	assert.Empty(t, requests[0].Requester)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse("", &Options{Now: referenceNow}))
	assert.Empty(t, Parse("Bonjour,\nMerci beaucoup", &Options{Now: referenceNow}))
}
