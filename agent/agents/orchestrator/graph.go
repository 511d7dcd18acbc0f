package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Reservation-Agent/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateRequest, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeLoadConversation,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateConversation(ctx, in, o.store, o.prompts.System, o.maxMemory)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeLoadConversation, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeDiscoverTools,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DiscoverTools(ctx, in, o.tools, o.callTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeDiscoverTools, err)
	}

	if err := graph.AddLambdaNode(nodex.NodePlanTurn,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanTurn(ctx, in, o.models.Planner(), o.callTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodePlanTurn, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeActOnToolCalls,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ActOnToolCalls(ctx, in, o.tools, o.models.Summarizer(), o.prompts, o.callTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeActOnToolCalls, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeDirectReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DirectReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeDirectReply, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSaveConversation,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveConversation(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSaveConversation, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeFinalizeReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFinalizeReply, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteAfterPlan(in)
		},
		map[string]bool{
			nodex.NodeActOnToolCalls: true,
			nodex.NodeDirectReply:    true,
		},
	)
	if err := graph.AddBranch(nodex.NodePlanTurn, branch); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodePlanTurn, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateRequest},
		{nodex.NodeValidateRequest, nodex.NodeLoadConversation},
		{nodex.NodeLoadConversation, nodex.NodeDiscoverTools},
		{nodex.NodeDiscoverTools, nodex.NodePlanTurn},
		{nodex.NodeActOnToolCalls, nodex.NodeSaveConversation},
		{nodex.NodeDirectReply, nodex.NodeSaveConversation},
		{nodex.NodeSaveConversation, nodex.NodeFinalizeReply},
		{nodex.NodeFinalizeReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
