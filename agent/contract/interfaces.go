package contract

import (
	"context"

	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

// Planner decides, from the history plus the new user message, whether to
// answer directly or request tool calls.
type Planner interface {
	Plan(ctx context.Context, req PlannerRequest) (PlannerResponse, error)
}

// Summarizer turns the accumulated history into a natural-language reply.
type Summarizer interface {
	Summarize(ctx context.Context, history []statex.Message) (string, error)
}

type Registry interface {
	Planner() Planner
	Summarizer() Summarizer
}

type ToolGateway interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (ToolResult, error)
}
