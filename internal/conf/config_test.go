package conf

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	valid := func() *Settings { return defaultSettings() }

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults_are_valid", func(s *Settings) {}, false},
		{"https_base_url", func(s *Settings) { s.Backend.BaseURL = "https://scraper.internal:8443" }, false},
		{"empty_base_url", func(s *Settings) { s.Backend.BaseURL = "" }, true},
		{"non_http_scheme", func(s *Settings) { s.Backend.BaseURL = "ftp://example.com" }, true},
		{"missing_host", func(s *Settings) { s.Backend.BaseURL = "http://" }, true},
		{"zero_timeout", func(s *Settings) { s.Backend.Timeout = 0 }, true},
		{"negative_debounce", func(s *Settings) { s.Preview.Debounce = -time.Second }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := defaultSettings()
	assert.Equal(t, defaultBaseURL, s.Backend.BaseURL)
	assert.Equal(t, 500*time.Millisecond, s.Preview.Debounce)
	assert.False(t, s.Debug)
	assert.NoError(t, ValidateSettings(s))
}

func TestSaveYAMLConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	want := defaultSettings()
	want.Debug = true
	want.Backend.BaseURL = "http://backend.test:9000"

	require.NoError(t, SaveYAMLConfig(configPath, want))
	require.FileExists(t, configPath)

	// The temp-file dance must not leave stray files behind
	entries, err := filepath.Glob(filepath.Join(dir, "config-*.yaml"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
