package dialogue

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/bluelane/frontdesk/agent/nodes/dialogue"
)

func (s *Service) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.TurnState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.LoadOrCreateSession(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_session: %w", err)
	}

	if err := graph.AddLambdaNode("understand",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.Understand(ctx, in, s.understander)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node understand: %w", err)
	}

	if err := graph.AddLambdaNode("track_state",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.TrackState(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node track_state: %w", err)
	}

	if err := graph.AddLambdaNode("prepare_query",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.PrepareQuery(in, s.engine)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare_query: %w", err)
	}

	if err := graph.AddLambdaNode("run_validation",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.RunValidation(ctx, in, s.validator)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_validation: %w", err)
	}

	if err := graph.AddLambdaNode("decide_action",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.DecideAction(in, s.engine)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node decide_action: %w", err)
	}

	if err := graph.AddLambdaNode("generate_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.GenerateReply(ctx, in, s.generator, s.log)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate_reply: %w", err)
	}

	if err := graph.AddLambdaNode("save_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.SaveSession(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_session"},
		{"load_or_create_session", "understand"},
		{"understand", "track_state"},
		{"track_state", "prepare_query"},
		{"prepare_query", "run_validation"},
		{"run_validation", "decide_action"},
		{"decide_action", "generate_reply"},
		{"generate_reply", "save_session"},
		{"save_session", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dialogue.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile dialogue graph: %w", err)
	}
	return runner, nil
}
