package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marc/gazelle-sync/internal/types"
)

const testInstitution = "Place des Arts"

func TestScoreAppointment(t *testing.T) {
	req := &types.ExtractedRequest{
		Room:   "WP",
		ForWho: "Concert",
		Time:   "14h",
	}

	tests := []struct {
		name     string
		appt     types.CalendarAppointment
		expected int
	}{
		{
			name:     "same day only",
			appt:     types.CalendarAppointment{Start: "2026-02-10T09:00:00Z", Title: "Autre client"},
			expected: 1,
		},
		{
			name: "institution in title",
			appt: types.CalendarAppointment{
				Start: "2026-02-10T09:00:00Z",
				Title: "Place des Arts",
			},
			expected: 1 + 10,
		},
		{
			name: "institution plus room in body",
			appt: types.CalendarAppointment{
				Start:    "2026-02-10T09:00:00Z",
				Title:    "Place des Arts",
				Location: "WP",
			},
			expected: 1 + 10 + 5,
		},
		{
			name: "room in title stacks a bonus",
			appt: types.CalendarAppointment{
				Start:    "2026-02-10T09:00:00Z",
				Title:    "Place des Arts - WP",
				Location: "WP",
			},
			expected: 1 + 10 + 5 + 3,
		},
		{
			name: "for-who keyword in title",
			appt: types.CalendarAppointment{
				Start: "2026-02-10T09:00:00Z",
				Title: "Concert du soir",
			},
			expected: 1 + 3,
		},
		{
			name: "time within two hours",
			appt: types.CalendarAppointment{
				Start: "2026-02-10T13:00:00Z",
				Title: "Autre client",
			},
			expected: 1 + 4,
		},
		{
			name: "time outside two hours",
			appt: types.CalendarAppointment{
				Start: "2026-02-10T09:00:00Z",
				Title: "Réservation",
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreAppointment(req, &tt.appt, testInstitution))
		})
	}
}

func TestScoreShortForWhoWordsIgnored(t *testing.T) {
	req := &types.ExtractedRequest{ForWho: "de la série"}
	appt := &types.CalendarAppointment{Start: "2026-02-10T09:00:00Z", Title: "de la maison"}

	// "de" and "la" are too short to count; "série" is absent from the title.
	assert.Equal(t, 1, ScoreAppointment(req, appt, testInstitution))
}

func TestBestMatch(t *testing.T) {
	date := dateOf(t, "2026-02-10")

	t.Run("strongest same-day candidate wins", func(t *testing.T) {
		req := &types.ExtractedRequest{Date: date, Room: "WP", ForWho: "Concert"}
		candidates := []types.CalendarAppointment{
			{ID: "apt-1", Start: "2026-02-10T09:00:00Z", Title: "Place des Arts", Location: "WP"},
			{ID: "apt-2", Start: "2026-02-10T10:00:00Z", Title: "Autre client"},
		}

		match := BestMatch(req, candidates, testInstitution)
		require.NotNil(t, match)
		assert.Equal(t, "apt-1", match.Appointment.ID)
		assert.GreaterOrEqual(t, match.Score, 16)
	})

	t.Run("first seen maximum wins ties", func(t *testing.T) {
		req := &types.ExtractedRequest{Date: date}
		candidates := []types.CalendarAppointment{
			{ID: "apt-1", Start: "2026-02-10T09:00:00Z", Title: "A"},
			{ID: "apt-2", Start: "2026-02-10T10:00:00Z", Title: "B"},
		}

		match := BestMatch(req, candidates, testInstitution)
		require.NotNil(t, match)
		assert.Equal(t, "apt-1", match.Appointment.ID)
	})

	t.Run("other days filtered out", func(t *testing.T) {
		req := &types.ExtractedRequest{Date: date, Room: "WP"}
		candidates := []types.CalendarAppointment{
			{ID: "apt-1", Start: "2026-02-11T09:00:00Z", Title: "Place des Arts", Location: "WP"},
		}

		assert.Nil(t, BestMatch(req, candidates, testInstitution))
	})

	t.Run("no candidates returns nil", func(t *testing.T) {
		req := &types.ExtractedRequest{Date: date}
		assert.Nil(t, BestMatch(req, nil, testInstitution))
	})

	t.Run("dateless request returns nil", func(t *testing.T) {
		req := &types.ExtractedRequest{Room: "WP"}
		candidates := []types.CalendarAppointment{
			{ID: "apt-1", Start: "2026-02-10T09:00:00Z"},
		}
		assert.Nil(t, BestMatch(req, candidates, testInstitution))
	})
}

func TestLinkable(t *testing.T) {
	assert.False(t, Linkable(nil))
	assert.False(t, Linkable(&types.MatchResult{Score: 1}))
	assert.True(t, Linkable(&types.MatchResult{Score: 2}))
}
