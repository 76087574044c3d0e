// Package transcript parses Claude Code JSONL session logs into the two
// event streams the decision pipeline consumes: thinking blocks and
// tool-use events.
//
// Each line of a transcript is an independent JSON record. Only records
// with type "assistant" are inspected; within those, content blocks of
// type "thinking" and "tool_use" are extracted in file order. Lines that
// fail to parse are skipped rather than aborting the file.
package transcript
