package dialoguenode

import (
	"context"
	"fmt"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

func Understand(ctx context.Context, in *TurnState, understander contractx.Understander) (*TurnState, error) {
	nlu, err := understander.Understand(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("understand turn: %w", err)
	}
	in.NLU = nlu
	return in, nil
}

// TrackState runs the tracker over the understood turn. The tracker is
// the sole writer of the dialogue state; its report is the evidence the
// decision engine consumes.
func TrackState(in *TurnState) (*TurnState, error) {
	in.Report = in.Session.Dialogue.Update(in.NLU)
	return in, nil
}
