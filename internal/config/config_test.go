package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("INSTITUTION_NAME", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Place des Arts", cfg.Institution)
	assert.Equal(t, 30, cfg.YearWindowPastDays)
	assert.Equal(t, 180, cfg.YearWindowFutureDays)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 9090,
		"institution": "Grand Théâtre",
		"year_window_past_days": 7,
		"year_window_future_days": 365,
		"alert_keywords": ["annulé"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "Grand Théâtre", cfg.Institution)
	assert.Equal(t, 7, cfg.YearWindowPastDays)
	assert.Equal(t, 365, cfg.YearWindowFutureDays)
	assert.Equal(t, []string{"annulé"}, cfg.AlertKeywords)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("GAZELLE_BASE_URL", "https://api.gazelle.test")
	t.Setenv("GAZELLE_API_KEY", "secret")
	t.Setenv("INSTITUTION_NAME", "Salle Bourgie")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.gazelle.test", cfg.GazelleBaseURL)
	assert.Equal(t, "secret", cfg.GazelleAPIKey)
	assert.Equal(t, "Salle Bourgie", cfg.Institution)
}

func TestLoadFileBeatsEnv(t *testing.T) {
	t.Setenv("INSTITUTION_NAME", "Salle Bourgie")
	path := writeConfigFile(t, `{"institution": "Place des Arts"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Place des Arts", cfg.Institution)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: `{"port": 70000}`},
		{name: "negative past window", content: `{"year_window_past_days": -5}`},
		{name: "negative future window", content: `{"year_window_future_days": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestPasswordConfig(t *testing.T) {
	t.Run("hash and verify round trip", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "10")
		pc, err := NewPasswordConfig()
		require.NoError(t, err)

		hash, err := pc.HashPassword("trois pianos verts")
		require.NoError(t, err)
		assert.True(t, pc.VerifyPassword("trois pianos verts", hash))
		assert.False(t, pc.VerifyPassword("mauvais mot de passe", hash))
	})

	t.Run("cost out of range", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "20")
		_, err := NewPasswordConfig()
		assert.Error(t, err)
	})
}

func TestJWTConfig(t *testing.T) {
	t.Run("secret required", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := NewJWTConfig()
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "")
		cfg, err := NewJWTConfig()
		require.NoError(t, err)
		assert.Equal(t, 24, cfg.ExpirationHours)
	})
}
