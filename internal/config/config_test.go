package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 15*time.Minute, cfg.SnapshotMaxAge)
	assert.Equal(t, 8*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, "es", cfg.DefaultLanguage)
	assert.Empty(t, cfg.Locations())
	assert.False(t, cfg.AerisConfigured())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevelValue())
}

func TestLoad_Locations(t *testing.T) {
	t.Setenv("WEATHER_LOCATION_CITY", "Madrid, Bogotá")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "ES,CO")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []Location{{"Madrid", "ES"}, {"Bogotá", "CO"}}, cfg.Locations())
}

func TestConfig_AerisConfigured(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
		want   bool
	}{
		{"both set", "cid", "csecret", true},
		{"id only", "cid", "", false},
		{"secret only", "", "csecret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AERISWEATHER_CLIENT_ID", tt.id)
			t.Setenv("AERISWEATHER_CLIENT_SECRET", tt.secret)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.AerisConfigured())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		kind ErrorKind
	}{
		{"mismatched locations", map[string]string{"WEATHER_LOCATION_CITY": "Madrid,Lima", "WEATHER_LOCATION_COUNTRY": "ES"}, ErrValidation},
		{"bad duration", map[string]string{"FETCH_INTERVAL": "often"}, ErrParsing},
		{"interval too short", map[string]string{"FETCH_INTERVAL": "10s"}, ErrValidation},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, ErrValidation},
		{"bad language", map[string]string{"DEFAULT_LANGUAGE": "fr"}, ErrValidation},
		{"bad bool", map[string]string{"OPENMETEO_ENABLED": "perhaps"}, ErrParsing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.kind, cfgErr.Kind)
			assert.Contains(t, cfgErr.Error(), string(tt.kind))
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GEOCODER_API_KEY=from-file\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GEOCODER_API_KEY")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GeocoderAPIKey)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevelValue())
}
