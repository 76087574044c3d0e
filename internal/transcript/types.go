package transcript

import "encoding/json"

// ThinkingBlock is a contiguous span of recorded reasoning from an
// assistant message, with the timestamp of the enclosing record.
type ThinkingBlock struct {
	// Timestamp is the raw ISO-8601 timestamp string from the record.
	// It may carry a literal "Z" UTC suffix and may be empty or
	// unparseable; consumers decide how to degrade.
	Timestamp string

	// Text is the raw thinking content.
	Text string

	// ParentUUID is the optional back-reference carried on the record.
	// It is passed through untouched.
	ParentUUID string
}

// ToolUse is a recorded tool invocation from an assistant message.
type ToolUse struct {
	// Timestamp is the raw ISO-8601 timestamp string from the record.
	Timestamp string

	// Name is the tool name (e.g. "Bash", "Read").
	Name string

	// Input is the opaque parameter mapping, kept as raw JSON.
	Input json.RawMessage
}

// Transcript holds the two time-ordered event streams parsed from one
// session log.
type Transcript struct {
	ThinkingBlocks []ThinkingBlock
	ToolUses       []ToolUse
}
