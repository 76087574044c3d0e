// Package config provides configuration loading for decisiond.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/decisiond/internal/logging"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	envPrefix = "DECISIOND_"
)

// Config is the full decisiond configuration.
type Config struct {
	Transcripts TranscriptsConfig `koanf:"transcripts"`
	Discovery   DiscoveryConfig   `koanf:"discovery"`
	Extraction  ExtractionConfig  `koanf:"extraction"`
	Logging     logging.Config    `koanf:"logging"`
}

// TranscriptsConfig locates session transcripts.
type TranscriptsConfig struct {
	// Dir is the transcripts directory, flat or nested per project.
	Dir string `koanf:"dir"`

	// SessionLimit caps how many sessions a batch run ingests.
	SessionLimit int `koanf:"session_limit"`
}

// DiscoveryConfig controls subprocess-based session discovery.
type DiscoveryConfig struct {
	// Enabled turns on aichat-based discovery. When off, only the
	// transcripts directory is scanned.
	Enabled bool `koanf:"enabled"`

	// Command is the search binary to invoke.
	Command string `koanf:"command"`

	// Timeout bounds one search invocation.
	Timeout time.Duration `koanf:"timeout"`
}

// ExtractionConfig tunes trace extraction.
type ExtractionConfig struct {
	MinThinkingChars  int           `koanf:"min_thinking_chars"`
	AssociationWindow time.Duration `koanf:"association_window"`
}

// Load reads configuration from the YAML file at configPath, then
// overrides with DECISIOND_* environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (DECISIOND_TRANSCRIPTS_DIR, ...)
//  2. YAML config file (default ~/.config/decisiond/config.yaml)
//  3. Hardcoded defaults
//
// A missing config file is not an error; defaults apply. Files larger
// than 1MB are rejected.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "decisiond", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate via the descriptor to avoid a TOCTOU race.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DECISIOND_TRANSCRIPTS_SESSION_LIMIT -> transcripts.session_limit:
	// the first underscore after the prefix separates section from field.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Transcripts.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Transcripts.Dir = filepath.Join(home, ".claude", "projects")
		}
	}
	if cfg.Transcripts.SessionLimit == 0 {
		cfg.Transcripts.SessionLimit = 10
	}

	if cfg.Discovery.Command == "" {
		cfg.Discovery.Command = "aichat"
	}
	if cfg.Discovery.Timeout == 0 {
		cfg.Discovery.Timeout = 60 * time.Second
	}

	if cfg.Extraction.MinThinkingChars == 0 {
		cfg.Extraction.MinThinkingChars = 50
	}
	if cfg.Extraction.AssociationWindow == 0 {
		cfg.Extraction.AssociationWindow = 60 * time.Second
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Transcripts.SessionLimit < 0 {
		return fmt.Errorf("transcripts.session_limit must be >= 0, got %d", c.Transcripts.SessionLimit)
	}
	if c.Extraction.MinThinkingChars < 0 {
		return fmt.Errorf("extraction.min_thinking_chars must be >= 0, got %d", c.Extraction.MinThinkingChars)
	}
	if c.Extraction.AssociationWindow < 0 {
		return fmt.Errorf("extraction.association_window must be >= 0, got %s", c.Extraction.AssociationWindow)
	}
	if c.Discovery.Timeout <= 0 {
		return fmt.Errorf("discovery.timeout must be > 0, got %s", c.Discovery.Timeout)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
