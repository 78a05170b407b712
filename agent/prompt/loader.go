// Package prompt embeds the system prompts for the two language
// boundaries.
package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/understanding.txt
	understandingRaw string

	//go:embed template/generation.txt
	generationRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Understanding string
	Generation    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Understanding: strings.TrimSpace(understandingRaw),
		Generation:    strings.TrimSpace(generationRaw),
	}
}
