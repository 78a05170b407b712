// Package dialoguenode holds the per-turn pipeline steps the dialogue
// graph runs in order: validate, load session, understand, track,
// reconcile, validate against the domain, decide, phrase, save.
package dialoguenode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	dmx "github.com/bluelane/frontdesk/agent/dm"
	statex "github.com/bluelane/frontdesk/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply     string
	Action    contractx.UnifiedAction
	Intent    contractx.Intent
	Committed bool
}

// TurnState threads one turn through the graph. Session points at the
// loaded context; the tracker and decision engine mutate it in place and
// the save step persists it.
type TurnState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.SessionContext

	NLU        contractx.NLUResult
	Report     contractx.TurnReport
	Plan       dmx.QueryPlan
	Validation *contractx.ValidationResult

	Action contractx.UnifiedAction
	Reply  string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*TurnState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &TurnState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
