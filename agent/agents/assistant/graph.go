package assistant

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

// compileChatGraph wires conversation messages into a single chat model call.
func compileChatGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	graphName string,
) (compose.Runnable[[]statex.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]statex.Message, *schema.Message]()

	if err := graph.AddLambdaNode("to_messages", compose.InvokableLambda(
		func(ctx context.Context, history []statex.Message) ([]*schema.Message, error) {
			return toSchemaMessages(history)
		}),
	); err != nil {
		return nil, fmt.Errorf("add message conversion node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "to_messages"); err != nil {
		return nil, fmt.Errorf("add edge start->to_messages: %w", err)
	}
	if err := graph.AddEdge("to_messages", "model"); err != nil {
		return nil, fmt.Errorf("add edge to_messages->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}

func toSchemaMessages(history []statex.Message) ([]*schema.Message, error) {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case statex.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case statex.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case statex.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			return nil, fmt.Errorf("%w: role=%q", statex.ErrInvalidRole, m.Role)
		}
	}
	return out, nil
}
