package dialoguenode

import (
	"context"
	"errors"
	"fmt"

	statex "github.com/bluelane/frontdesk/agent/state"
)

func LoadOrCreateSession(ctx context.Context, in *TurnState, store statex.Store) (*TurnState, error) {
	sess, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		in.Session = sess
	case errors.Is(err, statex.ErrSessionNotFound):
		in.Session = statex.NewSessionContext(in.SessionID, in.Now)
	default:
		return nil, fmt.Errorf("load session %s: %w", in.SessionID, err)
	}
	return in, nil
}

func SaveSession(ctx context.Context, in *TurnState, store statex.Store) (*TurnState, error) {
	in.Session.Version++
	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("session invalid before save: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", in.SessionID, err)
	}
	return in, nil
}
