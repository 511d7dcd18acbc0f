package orchestratornode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	promptx "github.com/tanpawarit/Chative-Reservation-Agent/agent/prompt"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

const noToolResponse = "No response from tool."

// ActOnToolCalls runs the requested calls in the order the planner returned
// them. Each result is summarised against the history accumulated so far,
// so later summaries see earlier results of the same turn.
func ActOnToolCalls(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
	summarizer contractx.Summarizer,
	prompts promptx.PromptSet,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	for _, call := range in.Plan.ToolCalls {
		trace, err := invokeTool(ctx, in.SessionID, call, tools, timeout)
		if err != nil {
			return nil, err
		}

		conv := in.Conversation
		if err := conv.Append(statex.RoleAssistant, prompts.CallNote(call.Name, argumentsText(call.Arguments, trace.Arguments))); err != nil {
			return nil, err
		}
		if err := conv.Append(statex.RoleUser, prompts.FollowUp(trace.Result)); err != nil {
			return nil, err
		}

		summary, err := callWithTimeout(ctx, timeout, "summarize", func(ctx context.Context) (string, error) {
			return summarizer.Summarize(ctx, conv.History())
		})
		if err != nil {
			return nil, err
		}
		if err := conv.Append(statex.RoleAssistant, summary); err != nil {
			return nil, err
		}
		conv.Trim()

		trace.Summary = summary
		in.Reasoning = append(in.Reasoning, trace)
	}
	return in, nil
}

// invokeTool returns an error only for failures that abort the turn. Bad
// arguments, unknown tools and tool failures become result text.
func invokeTool(
	ctx context.Context,
	sessionID string,
	call contractx.ToolCall,
	tools contractx.ToolGateway,
	timeout time.Duration,
) (contractx.ToolTrace, error) {
	trace := contractx.ToolTrace{Tool: call.Name}

	args, err := call.ParseArguments()
	if err != nil {
		trace.Result = fmt.Sprintf("The arguments for %s could not be read: %v.", call.Name, err)
		trace.IsError = true
		log.Warn().Err(err).Str("session_id", sessionID).Str("tool", call.Name).Msg("malformed tool arguments")
		return trace, nil
	}
	trace.Arguments = args

	start := time.Now()
	result, err := callWithTimeout(ctx, timeout, "call tool "+call.Name, func(ctx context.Context) (contractx.ToolResult, error) {
		return tools.CallTool(ctx, call.Name, args)
	})
	if errors.Is(err, contractx.ErrTimeout) {
		return trace, err
	}
	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).Err(err).
		Str("session_id", sessionID).
		Str("tool", call.Name).
		Dur("duration", time.Since(start)).
		Bool("is_error", result.IsError || err != nil).
		Msg("tool invoked")

	trace.Result = strings.TrimSpace(result.FirstText())
	if trace.Result == "" {
		trace.Result = noToolResponse
		if err != nil {
			trace.Result = err.Error()
		}
	}
	trace.IsError = result.IsError || err != nil
	return trace, nil
}

func argumentsText(raw string, parsed map[string]any) string {
	if parsed == nil {
		return raw
	}
	b, err := json.Marshal(parsed)
	if err != nil {
		return raw
	}
	return string(b)
}
