// Package config holds the run configuration for the collection pipeline.
// A Config is constructed once at startup and passed by reference into the
// source adapters and scoring functions; it is never mutated afterwards.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/confradar/confradar/pkg/errors"
)

// Default file locations relative to the working directory.
const (
	DefaultConfigFile = "config.yaml"
	DefaultEventsFile = "data/events.json"
)

// DefaultTopics is the fallback topic vocabulary used when no config file
// is present.
var DefaultTopics = []string{
	"ci/cd",
	"continuous integration",
	"continuous delivery",
	"devops",
	"platform engineering",
	"cloud native",
	"kubernetes",
	"containers",
	"gitops",
	"tekton",
}

// Config is the immutable run configuration.
type Config struct {
	// Countries lists the jurisdictions events are collected for.
	Countries []string `yaml:"countries"`

	// GlobalConferences names conference series tracked regardless of
	// location (matched as substrings of event names).
	GlobalConferences []string `yaml:"global_conferences"`

	// Topics is the topic vocabulary used for filtering and relevance
	// scoring.
	Topics []string `yaml:"topics"`

	// EventsFile is the path of the persisted event catalog.
	EventsFile string `yaml:"events_file"`

	// GeminiAPIKey enables the AI search adapter and CFP enrichment.
	// Taken from the GEMINI_API_KEY environment variable, never the file.
	GeminiAPIKey string `yaml:"-"`

	// SlackWebhookURL enables CFP deadline notifications.
	// Taken from the SLACK_WEBHOOK_URL environment variable.
	SlackWebhookURL string `yaml:"-"`
}

// Load reads the YAML config at path and fills in defaults and environment
// credentials. A missing file is not an error: the defaults apply. A file
// that exists but cannot be read or parsed is a ConfigError.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Run on defaults only.
	case err != nil:
		return nil, &errors.ConfigError{Component: "config", Message: "reading " + path, Err: err}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &errors.ConfigError{Component: "config", Message: "parsing " + path, Err: err}
		}
	}

	cfg.applyDefaults()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Topics) == 0 {
		c.Topics = append([]string(nil), DefaultTopics...)
	}
	if c.EventsFile == "" {
		c.EventsFile = filepath.FromSlash(DefaultEventsFile)
	}
}
