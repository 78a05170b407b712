package dialoguenode

import (
	"context"
	"fmt"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	dmx "github.com/bluelane/frontdesk/agent/dm"
)

// PrepareQuery reconciles the turn into the session and plans the
// validation round trip.
func PrepareQuery(in *TurnState, engine *dmx.Engine) (*TurnState, error) {
	in.Plan = engine.PrepareQuery(in.Session, in.NLU, in.Report)
	return in, nil
}

// RunValidation consults the validation engine when the plan calls for
// it. An engine failure is a turn failure; the service layer substitutes
// the canned fallback.
func RunValidation(ctx context.Context, in *TurnState, validator contractx.Validator) (*TurnState, error) {
	if !in.Plan.NeedsValidation {
		return in, nil
	}
	res, err := validator.Query(ctx, in.Plan.Request)
	if err != nil {
		return nil, fmt.Errorf("validation query: %w", err)
	}
	in.Validation = &res
	return in, nil
}

// DecideAction maps the turn's evidence to the single action of the turn.
func DecideAction(in *TurnState, engine *dmx.Engine) (*TurnState, error) {
	in.Action = engine.Decide(in.Session, in.NLU, in.Report, in.Plan, in.Validation)
	return in, nil
}
