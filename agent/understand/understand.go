// Package understand is the language-understanding boundary: free text
// in, a closed-vocabulary NLUResult out. Anything the model returns that
// does not fit the schema degrades to out_of_scope here, never deeper in
// the core.
package understand

import (
	"context"
	"errors"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	llmx "github.com/bluelane/frontdesk/agent/llm"
	logx "github.com/bluelane/frontdesk/pkg/logger"
)

// llmOutput mirrors the JSON contract of the understanding prompt. Slot
// values are pointers so an explicit null survives decoding and can be
// dropped.
type llmOutput struct {
	Intent string             `json:"intent"`
	Slots  map[string]*string `json:"slots"`
}

type Service struct {
	runner compose.Runnable[map[string]any, llmOutput]
	log    zerolog.Logger
}

var _ contractx.Understander = (*Service)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("understanding prompt is required")
	}

	runner, err := llmx.CompileStructuredChain[llmOutput](ctx, chatModel, systemPrompt, "understand.model_graph")
	if err != nil {
		return nil, err
	}
	return &Service{
		runner: runner,
		log:    logx.Component("understand"),
	}, nil
}

// Understand maps one user message onto the intent vocabulary. It never
// fails the turn: model errors and schema violations degrade to
// out_of_scope.
func (s *Service) Understand(ctx context.Context, text string) (contractx.NLUResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return contractx.OutOfScopeResult(), nil
	}

	out, err := s.runner.Invoke(ctx, map[string]any{"input": text})
	if err != nil {
		s.log.Warn().Err(err).Msg("understanding model invoke failed, degrading to out_of_scope")
		return contractx.OutOfScopeResult(), nil
	}

	intent, ok := contractx.ParseIntent(strings.TrimSpace(out.Intent))
	if !ok {
		s.log.Warn().Str("intent", out.Intent).Msg("unknown intent from model, degrading to out_of_scope")
		return contractx.OutOfScopeResult(), nil
	}

	slots := make(map[string]string, len(out.Slots))
	for key, value := range out.Slots {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" || strings.EqualFold(v, "null") {
			continue
		}
		slots[key] = v
	}

	return contractx.NLUResult{Intent: intent, Slots: slots}, nil
}
