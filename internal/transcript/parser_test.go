package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTranscript writes lines to a temp JSONL file and returns its path.
func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParser_Parse(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","timestamp":"2025-06-01T10:00:00Z","parentUuid":"p1","message":{"content":[{"type":"thinking","thinking":"Let me plan this out."},{"type":"tool_use","name":"Bash","input":{"command":"ls"}}]}}`,
		`{"type":"user","timestamp":"2025-06-01T10:00:05Z","message":{"content":[{"type":"text","text":"hi"}]}}`,
		`{"type":"assistant","timestamp":"2025-06-01T10:00:10Z","message":{"content":[{"type":"tool_use","name":"Read","input":{"file_path":"/tmp/x"}}]}}`,
	)

	tr, err := NewParser().Parse(path)
	require.NoError(t, err)

	require.Len(t, tr.ThinkingBlocks, 1)
	assert.Equal(t, "Let me plan this out.", tr.ThinkingBlocks[0].Text)
	assert.Equal(t, "2025-06-01T10:00:00Z", tr.ThinkingBlocks[0].Timestamp)
	assert.Equal(t, "p1", tr.ThinkingBlocks[0].ParentUUID)

	require.Len(t, tr.ToolUses, 2)
	assert.Equal(t, "Bash", tr.ToolUses[0].Name)
	assert.Equal(t, "Read", tr.ToolUses[1].Name)
}

func TestParser_SkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t,
		`not json at all`,
		`{"type":"assistant","timestamp":"2025-06-01T10:00:00Z","message":{"content":[{"type":"thinking","thinking":"still parsed"}]}}`,
		`{"truncated`,
	)

	tr, err := NewParser().Parse(path)
	require.NoError(t, err)
	require.Len(t, tr.ThinkingBlocks, 1)
	assert.Equal(t, "still parsed", tr.ThinkingBlocks[0].Text)
}

func TestParser_IgnoresNonAssistantRecords(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2025-06-01T10:00:00Z","message":{"content":[{"type":"thinking","thinking":"user thinking is not inspected"}]}}`,
		`{"type":"summary","summary":"session summary"}`,
	)

	tr, err := NewParser().Parse(path)
	require.NoError(t, err)
	assert.Empty(t, tr.ThinkingBlocks)
	assert.Empty(t, tr.ToolUses)
}

func TestParser_IgnoresUnknownBlockTypes(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","timestamp":"2025-06-01T10:00:00Z","message":{"content":[{"type":"text","text":"plain"},{"type":"thinking","thinking":"kept"}]}}`,
	)

	tr, err := NewParser().Parse(path)
	require.NoError(t, err)
	require.Len(t, tr.ThinkingBlocks, 1)
	assert.Equal(t, "kept", tr.ThinkingBlocks[0].Text)
	assert.Empty(t, tr.ToolUses)
}

func TestParser_MissingFile(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestParser_EmptyFile(t *testing.T) {
	path := writeTranscript(t)
	tr, err := NewParser().Parse(path)
	require.NoError(t, err)
	assert.Empty(t, tr.ThinkingBlocks)
	assert.Empty(t, tr.ToolUses)
}
