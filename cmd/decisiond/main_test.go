package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	line := fmt.Sprintf(`{"type":"assistant","timestamp":"2025-06-01T10:00:00Z","message":{"content":[{"type":"thinking","thinking":%q}]}}`,
		"Let me plan the rollout of the new ingestion service across regions.")
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"extract", "--config", filepath.Join(dir, "no-config.yaml"), path})

	require.NoError(t, rootCmd.Execute())

	var traces []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &traces))
	require.Len(t, traces, 1)
	assert.Equal(t, "planning", traces[0]["decision_type"])
	assert.Equal(t, "2025-06-01T10:00:00Z", traces[0]["timestamp"])
}

func TestExtractCommand_MissingFile(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"extract", "--config", filepath.Join(t.TempDir(), "no-config.yaml"), "/nonexistent.jsonl"})

	assert.Error(t, rootCmd.Execute())
}
