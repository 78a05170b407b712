// Package dialogue assembles the front-desk turn pipeline: session
// store, language boundaries, decision engine and validation engine
// behind a single HandleTurn entrypoint.
package dialogue

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	dmx "github.com/bluelane/frontdesk/agent/dm"
	nodex "github.com/bluelane/frontdesk/agent/nodes/dialogue"
	statex "github.com/bluelane/frontdesk/agent/state"
	logx "github.com/bluelane/frontdesk/pkg/logger"
	"github.com/bluelane/frontdesk/pkg/qstash"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// TurnResult is what one handled turn produced.
type TurnResult struct {
	Reply     string
	Action    contractx.UnifiedAction
	Intent    contractx.Intent
	Committed bool
}

// TransactionEvent is the payload published after a committed
// transaction.
type TransactionEvent struct {
	SessionID string           `json:"session_id"`
	Intent    contractx.Intent `json:"intent"`
	Summary   string           `json:"summary"`
	At        time.Time        `json:"at"`
}

type Service struct {
	store        statex.Store
	understander contractx.Understander
	generator    contractx.Generator
	validator    contractx.Validator
	engine       *dmx.Engine
	events       *qstash.Client
	eventDest    string

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	log zerolog.Logger
	now func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventPublisher wires the QStash client confirmed transactions are
// announced through.
func WithEventPublisher(client *qstash.Client, destination string) Option {
	return func(s *Service) {
		s.events = client
		s.eventDest = destination
	}
}

func New(
	store statex.Store,
	understander contractx.Understander,
	generator contractx.Generator,
	validator contractx.Validator,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if understander == nil {
		return nil, errors.New("understander is required")
	}
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if validator == nil {
		return nil, errors.New("validator is required")
	}

	s := &Service{
		store:        store,
		understander: understander,
		generator:    generator,
		validator:    validator,
		engine:       dmx.New(),
		log:          logx.Component("dialogue"),
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	graphRunner, err := s.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleTurn runs one user message through the pipeline and returns the
// assistant's reply.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) (TurnResult, error) {
	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return TurnResult{}, err
	}

	if out.Committed {
		s.publishTransaction(ctx, sessionID, out)
	}

	return TurnResult{
		Reply:     out.Reply,
		Action:    out.Action,
		Intent:    out.Intent,
		Committed: out.Committed,
	}, nil
}

// publishTransaction announces a committed transaction downstream.
// Best-effort: a publish failure is logged, never surfaced to the user.
func (s *Service) publishTransaction(ctx context.Context, sessionID string, out nodex.GraphOutput) {
	if s.events == nil || s.eventDest == "" {
		return
	}
	event := TransactionEvent{
		SessionID: sessionID,
		Intent:    out.Intent,
		Summary:   out.Action.Info,
		At:        s.now().UTC(),
	}
	if err := s.events.PublishJSON(ctx, s.eventDest, event); err != nil {
		s.log.Warn().Err(err).
			Str("session_id", sessionID).
			Msg("transaction event publish failed")
	}
}
