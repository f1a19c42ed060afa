package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
countries:
  - Germany
  - Netherlands
global_conferences:
  - KubeCon
topics:
  - devops
  - gitops
events_file: /tmp/confradar/events.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Germany", "Netherlands"}, cfg.Countries)
	assert.Equal(t, []string{"KubeCon"}, cfg.GlobalConferences)
	assert.Equal(t, []string{"devops", "gitops"}, cfg.Topics)
	assert.Equal(t, "/tmp/confradar/events.json", cfg.EventsFile)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Countries)
	assert.Equal(t, DefaultTopics, cfg.Topics)
	assert.Equal(t, filepath.FromSlash(DefaultEventsFile), cfg.EventsFile)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, "countries:\n  - Norway\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Norway"}, cfg.Countries)
	assert.Equal(t, DefaultTopics, cfg.Topics)
	assert.NotEmpty(t, cfg.EventsFile)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "countries: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadEnvCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.example.com/T000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gm-test", cfg.GeminiAPIKey)
	assert.Equal(t, "https://hooks.slack.example.com/T000", cfg.SlackWebhookURL)
}
