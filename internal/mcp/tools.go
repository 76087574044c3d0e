package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/datagraph"
)

type contextProjectInput struct {
	Task      string   `json:"task" jsonschema:"required,Description of the task being started or the decision being made"`
	Tools     []string `json:"tools,omitempty" jsonschema:"Tools currently being considered (e.g. Bash, Read, Edit)"`
	ErrorText string   `json:"error_text,omitempty" jsonschema:"Error text currently being handled, if any"`
}

type contextProjectOutput struct {
	Context            string           `json:"context" jsonschema:"Rendered context section ready for prompt injection"`
	Precedents         []map[string]any `json:"precedents" jsonschema:"Relevant prior decision traces, most relevant first"`
	ApplicablePatterns []string         `json:"applicable_patterns" jsonschema:"Pattern strings derived from the precedents"`
	Warnings           []string         `json:"warnings" jsonschema:"Past failures similar to the current task"`
	SuggestedTools     []string         `json:"suggested_tools" jsonschema:"Tools that historically co-occur with the hinted tools"`
	RelevanceScore     float64          `json:"relevance_score" jsonschema:"Overall relevance in [0,1]"`
}

type datagraphStatsInput struct{}

type sessionExtractInput struct {
	Path string `json:"path" jsonschema:"required,Path to a Claude Code JSONL session transcript"`
}

type sessionExtractOutput struct {
	Path       string           `json:"path" jsonschema:"Transcript path analyzed"`
	TraceCount int              `json:"trace_count" jsonschema:"Number of decision traces extracted"`
	Traces     []map[string]any `json:"traces" jsonschema:"Extracted decision traces"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "context_project",
		Description: "Project relevant decision history for the current task: similar past decisions, applicable patterns, warnings from past failures, and suggested tools.",
	}, s.handleContextProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "datagraph_stats",
		Description: "Report datagraph size: trace totals, decision type distribution, and index counts.",
	}, s.handleDatagraphStats)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "session_extract",
		Description: "Extract decision traces from one session transcript without modifying the datagraph.",
	}, s.handleSessionExtract)
}

func (s *Server) handleContextProject(_ context.Context, _ *mcp.CallToolRequest, args contextProjectInput) (*mcp.CallToolResult, contextProjectOutput, error) {
	if args.Task == "" {
		return nil, contextProjectOutput{}, fmt.Errorf("task is required")
	}

	graph := s.projector.Project(args.Task, args.Tools, args.ErrorText)

	precedents := make([]map[string]any, 0, len(graph.Precedents))
	for _, tr := range graph.Precedents {
		precedents = append(precedents, tr.ToMap())
	}

	out := contextProjectOutput{
		Context:            graph.RenderPromptContext(),
		Precedents:         precedents,
		ApplicablePatterns: graph.ApplicablePatterns,
		Warnings:           graph.Warnings,
		SuggestedTools:     graph.SuggestedTools,
		RelevanceScore:     graph.RelevanceScore,
	}

	s.logger.Debug("context_project served",
		zap.Int("precedents", len(out.Precedents)),
		zap.Float64("relevance", out.RelevanceScore))

	return nil, out, nil
}

func (s *Server) handleDatagraphStats(_ context.Context, _ *mcp.CallToolRequest, _ datagraphStatsInput) (*mcp.CallToolResult, datagraph.Stats, error) {
	return nil, s.dg.GetStats(), nil
}

func (s *Server) handleSessionExtract(_ context.Context, _ *mcp.CallToolRequest, args sessionExtractInput) (*mcp.CallToolResult, sessionExtractOutput, error) {
	if args.Path == "" {
		return nil, sessionExtractOutput{}, fmt.Errorf("path is required")
	}

	traces, err := s.extractor.Extract(args.Path)
	if err != nil {
		return nil, sessionExtractOutput{}, fmt.Errorf("extracting session: %w", err)
	}

	maps := make([]map[string]any, 0, len(traces))
	for _, tr := range traces {
		maps = append(maps, tr.ToMap())
	}

	return nil, sessionExtractOutput{
		Path:       args.Path,
		TraceCount: len(traces),
		Traces:     maps,
	}, nil
}
