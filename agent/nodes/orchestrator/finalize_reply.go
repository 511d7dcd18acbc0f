package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Conversation == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	last, ok := in.Conversation.LastAssistant()
	if !ok || strings.TrimSpace(last.Content) == "" {
		return GraphOutput{}, fmt.Errorf("%w: turn produced no assistant reply", contractx.ErrSchemaViolation)
	}

	reasoning := in.Reasoning
	if reasoning == nil {
		reasoning = []contractx.ToolTrace{}
	}
	return GraphOutput{
		SessionID: in.SessionID,
		Reply:     strings.TrimSpace(last.Content),
		Context:   in.Conversation.History(),
		Reasoning: reasoning,
	}, nil
}
