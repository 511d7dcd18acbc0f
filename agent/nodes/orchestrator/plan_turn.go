package orchestratornode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

// PlanTurn asks the planner for a direct answer or tool calls, then records
// the user message in the working conversation.
func PlanTurn(
	ctx context.Context,
	in *GraphState,
	planner contractx.Planner,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	req := contractx.PlannerRequest{
		History:     in.Conversation.History(),
		UserMessage: in.Text,
		Tools:       in.Tools,
	}
	plan, err := callWithTimeout(ctx, timeout, "plan", func(ctx context.Context) (contractx.PlannerResponse, error) {
		return planner.Plan(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", in.SessionID).
		Int("tool_calls", len(plan.ToolCalls)).
		Msg("model response received")

	if err := in.Conversation.Append(statex.RoleUser, in.Text); err != nil {
		return nil, err
	}
	in.Plan = plan
	return in, nil
}

// RouteAfterPlan picks the tool fold when the planner requested any call.
func RouteAfterPlan(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Plan.ToolCalls) > 0 {
		return NodeActOnToolCalls, nil
	}
	return NodeDirectReply, nil
}
