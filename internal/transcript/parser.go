package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxScanTokenSize bounds a single transcript line. Thinking blocks can be
// large, so the default bufio limit is far too small.
const maxScanTokenSize = 10 * 1024 * 1024 // 10MB

// Parser reads Claude Code JSONL transcripts.
type Parser struct{}

// NewParser creates a new transcript parser.
func NewParser() *Parser {
	return &Parser{}
}

// jsonlRecord is the raw top-level shape of one transcript line.
type jsonlRecord struct {
	Type       string          `json:"type"`
	Message    json.RawMessage `json:"message,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`
	ParentUUID string          `json:"parentUuid,omitempty"`
}

// assistantMessage is the nested message structure of an assistant record.
type assistantMessage struct {
	Content []contentBlock `json:"content"`
}

// contentBlock is one element of a message's content list. Unknown block
// types pass through unmodified and are ignored.
type contentBlock struct {
	Type     string          `json:"type"`
	Thinking string          `json:"thinking,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

// Parse reads the full session log at path and returns its thinking blocks
// and tool-use events in file order. Malformed lines are skipped. The file
// is read once and closed before returning.
func (p *Parser) Parse(path string) (*Transcript, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer file.Close()

	tr := &Transcript{
		ThinkingBlocks: make([]ThinkingBlock, 0),
		ToolUses:       make([]ToolUse, 0),
	}

	scanner := bufio.NewScanner(file)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// Malformed line: skip, never fatal.
			continue
		}

		p.extractContent(rec, tr)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning transcript: %w", err)
	}

	return tr, nil
}

// extractContent pulls thinking and tool_use blocks out of one record.
// Non-assistant records carry no reasoning content and are ignored.
func (p *Parser) extractContent(rec jsonlRecord, tr *Transcript) {
	if rec.Type != "assistant" {
		return
	}

	var msg assistantMessage
	if err := json.Unmarshal(rec.Message, &msg); err != nil {
		return
	}

	for _, block := range msg.Content {
		switch block.Type {
		case "thinking":
			tr.ThinkingBlocks = append(tr.ThinkingBlocks, ThinkingBlock{
				Timestamp:  rec.Timestamp,
				Text:       block.Thinking,
				ParentUUID: rec.ParentUUID,
			})
		case "tool_use":
			tr.ToolUses = append(tr.ToolUses, ToolUse{
				Timestamp: rec.Timestamp,
				Name:      block.Name,
				Input:     block.Input,
			})
		}
	}
}
