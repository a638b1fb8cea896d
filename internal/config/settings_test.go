package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "retheme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: pages\nport: 8080\nsanitize: true\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "pages", s.Dir)
	assert.Equal(t, 8080, s.Port)
	assert.True(t, s.Sanitize)
	assert.Equal(t, "*.html", s.Pattern)
	assert.True(t, s.Verify)

	t.Setenv("RETHEME_DIR", "from-env")
	t.Setenv("RETHEME_FLOWS_FILE", "custom.yaml")
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.Dir)
	assert.Equal(t, "custom.yaml", s.FlowsFile)
	assert.Equal(t, 8080, s.Port)
}

func TestLoadSettingsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RETHEME_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RETHEME_LOG_LEVEL") })

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettingsBadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "retheme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir: [unclosed\n"), 0o644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty dir", func(s *Settings) { s.Dir = " " }},
		{"bad pattern", func(s *Settings) { s.Pattern = "[" }},
		{"empty pattern", func(s *Settings) { s.Pattern = "" }},
		{"port zero", func(s *Settings) { s.Port = 0 }},
		{"port too high", func(s *Settings) { s.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "retheme.yaml")
	s := DefaultSettings()
	s.TemplateDir = "templates/dark"
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}
