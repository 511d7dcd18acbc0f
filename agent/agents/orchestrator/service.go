// Package orchestrator runs one conversational turn: discover tools, plan,
// call the requested tools with a summary after each, and commit the
// conversation.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	nodex "github.com/tanpawarit/Chative-Reservation-Agent/agent/nodes/orchestrator"
	promptx "github.com/tanpawarit/Chative-Reservation-Agent/agent/prompt"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	MaxMemory   int           `envconfig:"MAX_MEMORY" split_words:"true" default:"5"`
	CallTimeout time.Duration `envconfig:"CALL_TIMEOUT" split_words:"true" default:"60s"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" split_words:"true" default:"24h"`

	Prompts promptx.PromptSet `ignored:"true"`
}

type Orchestrator struct {
	store  statex.Store
	models contractx.Registry
	tools  contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	prompts     promptx.PromptSet
	maxMemory   int
	callTimeout time.Duration

	sessions *sessionLocks
	now      func() time.Time
}

func New(
	store statex.Store,
	models contractx.Registry,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("conversation store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	prompts := cfg.Prompts
	if strings.TrimSpace(prompts.System) == "" {
		prompts = promptx.LoadPromptSet()
	}
	if err := prompts.Validate(); err != nil {
		return nil, err
	}
	maxMemory := cfg.MaxMemory
	if maxMemory <= 0 {
		maxMemory = statex.DefaultMaxMemory
	}

	o := &Orchestrator{
		store:       store,
		models:      models,
		tools:       tools,
		prompts:     prompts,
		maxMemory:   maxMemory,
		callTimeout: cfg.CallTimeout,
		sessions:    newSessionLocks(),
		now:         time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one turn. Turns of the same session are serialised;
// different sessions proceed concurrently. On error the stored conversation
// is left as it was before the turn.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return contractx.TurnResult{}, ErrInvalidSession
	}

	release, err := o.sessions.acquire(ctx, sessionID)
	if err != nil {
		return contractx.TurnResult{}, err
	}
	defer release()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("error processing query")
		return contractx.TurnResult{}, err
	}
	return contractx.TurnResult{
		SessionID: out.SessionID,
		Reply:     out.Reply,
		Context:   out.Context,
		Reasoning: out.Reasoning,
	}, nil
}

// Reset forgets a session's conversation.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	release, err := o.sessions.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()
	return o.store.Delete(ctx, sessionID)
}

func (o *Orchestrator) ListTools(ctx context.Context) ([]contractx.ToolDescriptor, error) {
	return o.tools.ListTools(ctx)
}
