package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

type plannerImpl struct {
	model einomodel.ToolCallingChatModel

	// compiled graphs keyed by the sorted tool names they were bound with
	mu      sync.Mutex
	runners map[string]compose.Runnable[[]statex.Message, *schema.Message]
}

func newPlanner(chatModel einomodel.ToolCallingChatModel) (*plannerImpl, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: planner model is required", contractx.ErrValidation)
	}
	return &plannerImpl{
		model:   chatModel,
		runners: make(map[string]compose.Runnable[[]statex.Message, *schema.Message]),
	}, nil
}

func (p *plannerImpl) Plan(ctx context.Context, req contractx.PlannerRequest) (contractx.PlannerResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.PlannerResponse{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	runner, err := p.runnerFor(ctx, req.Tools)
	if err != nil {
		return contractx.PlannerResponse{}, err
	}

	messages := make([]statex.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, statex.Message{Role: statex.RoleUser, Content: req.UserMessage})

	msg, err := runner.Invoke(ctx, messages)
	if err != nil {
		return contractx.PlannerResponse{}, fmt.Errorf("%w: planner invoke: %w", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.PlannerResponse{}, fmt.Errorf("%w: empty planner response", contractx.ErrSchemaViolation)
	}

	calls, err := toToolCalls(msg.ToolCalls)
	if err != nil {
		return contractx.PlannerResponse{}, err
	}
	return contractx.PlannerResponse{
		Content:   strings.TrimSpace(msg.Content),
		ToolCalls: calls,
	}, nil
}

func (p *plannerImpl) runnerFor(ctx context.Context, tools []contractx.ToolDescriptor) (compose.Runnable[[]statex.Message, *schema.Message], error) {
	infos := toolInfos(tools)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	key := strings.Join(names, ",")

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.runners[key]; ok {
		return r, nil
	}

	var bound einomodel.BaseChatModel = p.model
	if len(infos) > 0 {
		m, err := p.model.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
		}
		bound = m
	}
	runner, err := compileChatGraph(ctx, bound, "assistant.planner_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	p.runners[key] = runner
	return runner, nil
}

func toolInfos(tools []contractx.ToolDescriptor) []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		if t.Info != nil {
			infos = append(infos, t.Info)
			continue
		}
		infos = append(infos, &schema.ToolInfo{Name: t.Name, Desc: t.Description})
	}
	return infos
}

func toToolCalls(calls []schema.ToolCall) ([]contractx.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]contractx.ToolCall, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		out = append(out, contractx.ToolCall{
			ID:        call.ID,
			Name:      name,
			Arguments: call.Function.Arguments,
		})
	}
	return out, nil
}
