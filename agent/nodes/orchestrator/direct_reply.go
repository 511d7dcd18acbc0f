package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

// DirectReply uses the planner's own text when it requested no tools.
func DirectReply(in *GraphState) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	content := strings.TrimSpace(in.Plan.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: planner returned neither content nor tool calls", contractx.ErrSchemaViolation)
	}
	if err := in.Conversation.Append(statex.RoleAssistant, content); err != nil {
		return nil, err
	}
	in.Conversation.Trim()
	return in, nil
}
