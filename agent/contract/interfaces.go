package contract

import "context"

// Understander maps free user text to an intent/slot extraction.
type Understander interface {
	Understand(ctx context.Context, text string) (NLUResult, error)
}

// Generator phrases a unified action as a user-facing sentence.
type Generator interface {
	Generate(ctx context.Context, action UnifiedAction, lastUserMessage string) (string, error)
}

// Validator runs one validation/normalization round trip for a turn.
type Validator interface {
	Query(ctx context.Context, req ValidationRequest) (ValidationResult, error)
}
