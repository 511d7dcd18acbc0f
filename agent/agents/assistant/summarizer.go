package assistant

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

// summarizerImpl calls the model without tools bound.
type summarizerImpl struct {
	runner compose.Runnable[[]statex.Message, *schema.Message]
}

func newSummarizer(ctx context.Context, chatModel einomodel.BaseChatModel) (*summarizerImpl, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: summarizer model is required", contractx.ErrValidation)
	}
	runner, err := compileChatGraph(ctx, chatModel, "assistant.summarizer_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &summarizerImpl{runner: runner}, nil
}

func (s *summarizerImpl) Summarize(ctx context.Context, history []statex.Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: history is empty", contractx.ErrValidation)
	}
	msg, err := s.runner.Invoke(ctx, history)
	if err != nil {
		return "", fmt.Errorf("%w: summarizer invoke: %w", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: summary is empty", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}
