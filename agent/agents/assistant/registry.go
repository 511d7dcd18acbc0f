// Package assistant provides the language-model roles of a turn: a planner
// that may request tool calls and a summarizer that writes the reply.
package assistant

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	llmx "github.com/tanpawarit/Chative-Reservation-Agent/agent/llm"
)

type registryImpl struct {
	planner    contractx.Planner
	summarizer contractx.Summarizer
}

func (r *registryImpl) Planner() contractx.Planner {
	return r.planner
}

func (r *registryImpl) Summarizer() contractx.Summarizer {
	return r.summarizer
}

// NewRegistry builds both roles from OpenRouter-compatible chat models.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plannerCfg := cfg.OpenRouterFor(contractx.AgentTypePlanner)
	plannerModel, err := plannerCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create planner model: %v", contractx.ErrModelInvoke, err)
	}
	summarizerCfg := cfg.OpenRouterFor(contractx.AgentTypeSummarizer)
	summarizerModel, err := summarizerCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create summarizer model: %v", contractx.ErrModelInvoke, err)
	}

	return NewRegistryWithModels(ctx, plannerModel, summarizerModel)
}

func NewRegistryWithModels(ctx context.Context, planner einomodel.ToolCallingChatModel, summarizer einomodel.BaseChatModel) (contractx.Registry, error) {
	p, err := newPlanner(planner)
	if err != nil {
		return nil, err
	}
	s, err := newSummarizer(ctx, summarizer)
	if err != nil {
		return nil, err
	}
	return &registryImpl{planner: p, summarizer: s}, nil
}
