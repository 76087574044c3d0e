package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	// A path that does not exist falls through to defaults.
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Transcripts.Dir)
	assert.Equal(t, 10, cfg.Transcripts.SessionLimit)
	assert.Equal(t, "aichat", cfg.Discovery.Command)
	assert.Equal(t, 60*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, 50, cfg.Extraction.MinThinkingChars)
	assert.Equal(t, 60*time.Second, cfg.Extraction.AssociationWindow)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, zapcore.InfoLevel, cfg.Logging.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
transcripts:
  dir: /data/transcripts
  session_limit: 25
discovery:
  enabled: true
  command: my-search
  timeout: 30s
extraction:
  min_thinking_chars: 80
  association_window: 120s
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/transcripts", cfg.Transcripts.Dir)
	assert.Equal(t, 25, cfg.Transcripts.SessionLimit)
	assert.True(t, cfg.Discovery.Enabled)
	assert.Equal(t, "my-search", cfg.Discovery.Command)
	assert.Equal(t, 30*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, 80, cfg.Extraction.MinThinkingChars)
	assert.Equal(t, 120*time.Second, cfg.Extraction.AssociationWindow)
	assert.Equal(t, zapcore.DebugLevel, cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
transcripts:
  dir: /data/transcripts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DECISIOND_TRANSCRIPTS_DIR", "/env/transcripts")
	t.Setenv("DECISIOND_TRANSCRIPTS_SESSION_LIMIT", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/transcripts", cfg.Transcripts.Dir)
	assert.Equal(t, 7, cfg.Transcripts.SessionLimit)
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	big := make([]byte, maxConfigFileSize+1)
	require.NoError(t, os.WriteFile(path, big, 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Transcripts.SessionLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Extraction.MinThinkingChars = -5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Logging.Format = "bogus"
	assert.Error(t, cfg.Validate())
}
