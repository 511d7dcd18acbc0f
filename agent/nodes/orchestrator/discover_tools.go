package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

func DiscoverTools(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	list, err := callWithTimeout(ctx, timeout, "list tools", tools.ListTools)
	if err != nil {
		log.Error().Err(err).Str("session_id", in.SessionID).Msg("error fetching tools")
		if errors.Is(err, contractx.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", contractx.ErrToolDiscovery, err)
	}

	log.Info().Str("session_id", in.SessionID).Int("tools", len(list)).Msg("successfully fetched tools")
	in.Tools = list
	return in, nil
}
