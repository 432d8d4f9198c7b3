package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImportPayload(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{
			"requests": [
				{
					"date": "2026-02-10",
					"room": "WP",
					"diapason": "442",
					"requester": "IC",
					"piano": "Steinway D",
					"time": "14h",
					"confidence": 0.9
				}
			]
		}`
		assert.NoError(t, ValidateImportPayload([]byte(payload)))
	})

	t.Run("minimal payload", func(t *testing.T) {
		assert.NoError(t, ValidateImportPayload([]byte(`{"requests":[{"date":"2026-02-10"}]}`)))
	})

	t.Run("missing date", func(t *testing.T) {
		err := ValidateImportPayload([]byte(`{"requests":[{"room":"WP"}]}`))
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Errors)
	})

	t.Run("bad date format", func(t *testing.T) {
		err := ValidateImportPayload([]byte(`{"requests":[{"date":"20 janvier"}]}`))
		assert.Error(t, err)
	})

	t.Run("bad diapason", func(t *testing.T) {
		err := ValidateImportPayload([]byte(`{"requests":[{"date":"2026-02-10","diapason":"44"}]}`))
		assert.Error(t, err)
	})

	t.Run("empty request list", func(t *testing.T) {
		assert.Error(t, ValidateImportPayload([]byte(`{"requests":[]}`)))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		err := ValidateImportPayload([]byte(`{"requests":[{"date":"2026-02-10","salle":"WP"}]}`))
		assert.Error(t, err)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		err := ValidateImportPayload([]byte(`{"requests":[{"date":"2026-02-10","confidence":1.5}]}`))
		assert.Error(t, err)
	})
}
