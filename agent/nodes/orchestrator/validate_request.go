package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = statex.ErrInvalidSession
)

const (
	NodeValidateRequest  = "validate_request"
	NodeLoadConversation = "load_or_create_conversation"
	NodeDiscoverTools    = "discover_tools"
	NodePlanTurn         = "plan_turn"
	NodeActOnToolCalls   = "act_on_tool_calls"
	NodeDirectReply      = "direct_reply"
	NodeSaveConversation = "save_conversation"
	NodeFinalizeReply    = "finalize_reply"
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	SessionID string
	Reply     string
	Context   []statex.Message
	Reasoning []contractx.ToolTrace
}

// GraphState is the working set of one turn. Conversation is a private copy
// that is saved only after every step succeeded.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Conversation *statex.Conversation
	Tools        []contractx.ToolDescriptor
	Plan         contractx.PlannerResponse

	Reasoning []contractx.ToolTrace
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
