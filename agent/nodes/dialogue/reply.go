package dialoguenode

import (
	"context"

	"github.com/rs/zerolog"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

// GenerateReply phrases the action. Generation failures never fail the
// turn: the canned fallback goes out and the session still saves.
func GenerateReply(ctx context.Context, in *TurnState, generator contractx.Generator, log zerolog.Logger) (*TurnState, error) {
	reply, err := generator.Generate(ctx, in.Action, in.Text)
	if err != nil {
		log.Warn().Err(err).
			Str("action", string(in.Action.Action)).
			Msg("generation failed, using fallback reply")
		in.Reply = contractx.FallbackReply
		return in, nil
	}
	in.Reply = reply
	return in, nil
}

func FinalizeReply(in *TurnState) (GraphOutput, error) {
	committed := in.Plan.Request.Commit &&
		in.Validation != nil &&
		in.Validation.Keyword == contractx.KeywordComplete

	// The commit turn itself is a confirmation_response; report the
	// transaction that was committed, not the confirmation.
	intent := in.NLU.Intent
	if committed {
		intent = in.Plan.Request.Intent
	}

	return GraphOutput{
		Reply:     in.Reply,
		Action:    in.Action,
		Intent:    intent,
		Committed: committed,
	}, nil
}
