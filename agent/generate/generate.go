// Package generate is the language-generation boundary: one
// UnifiedAction in, one user-facing sentence out.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	llmx "github.com/bluelane/frontdesk/agent/llm"
)

type Service struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Generator = (*Service)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("generation prompt is required")
	}

	runner, err := llmx.CompileTextChain(ctx, chatModel, systemPrompt, "generate.model_graph")
	if err != nil {
		return nil, err
	}
	return &Service{runner: runner}, nil
}

// Generate phrases the action. Errors surface to the caller, which owns
// the canned-fallback substitution.
func (s *Service) Generate(ctx context.Context, action contractx.UnifiedAction, lastUserMessage string) (string, error) {
	payload, err := json.Marshal(action)
	if err != nil {
		return "", fmt.Errorf("%w: marshal action: %v", contractx.ErrSchemaViolation, err)
	}

	input := fmt.Sprintf("USER MESSAGE: %q\nACTION: %s", strings.TrimSpace(lastUserMessage), payload)
	msg, err := s.runner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return "", fmt.Errorf("%w: generation invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: generation returned no content", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(msg.Content), nil
}
