package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

func LoadOrCreateConversation(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	systemPrompt string,
	maxMemory int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	conv, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		conv = conv.Clone()
	case errors.Is(err, statex.ErrStateNotFound):
		conv = statex.NewConversation(in.SessionID, systemPrompt, maxMemory, in.Now)
	default:
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	in.Conversation = conv
	return in, nil
}
