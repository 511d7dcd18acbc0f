package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

type AgentType string

const (
	AgentTypePlanner    AgentType = "planner"
	AgentTypeSummarizer AgentType = "summarizer"
)

type ToolDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema json.RawMessage  `json:"inputSchema"`
	Info        *schema.ToolInfo `json:"-"`
}

type PlannerRequest struct {
	History     []statex.Message `json:"history"`
	UserMessage string           `json:"user_message"`
	Tools       []ToolDescriptor `json:"tools"`
}

type PlannerResponse struct {
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ParseArguments decodes the model-issued argument string into a JSON object.
// Numbers stay json.Number; blank input is an empty object.
func (c ToolCall) ParseArguments() (map[string]any, error) {
	raw := strings.TrimSpace(c.Arguments)
	if raw == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolResult struct {
	Tool    string        `json:"tool"`
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// FirstText returns the text of the first content item, or "" when empty.
func (r ToolResult) FirstText() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

func TextResult(tool, text string, isError bool) ToolResult {
	return ToolResult{
		Tool:    tool,
		Content: []ToolContent{{Type: "text", Text: text}},
		IsError: isError,
	}
}

// ToolTrace records one executed tool call of a turn.
type ToolTrace struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result"`
	IsError   bool           `json:"is_error,omitempty"`
	Summary   string         `json:"summary"`
}

type TurnResult struct {
	SessionID string           `json:"session_id"`
	Reply     string           `json:"reply"`
	Context   []statex.Message `json:"context"`
	Reasoning []ToolTrace      `json:"reasoning"`
}
