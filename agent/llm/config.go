// Package llm holds the chat-model configuration shared by the language
// boundaries (understanding and generation) and the structured-output
// chain they both run on.
package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	openrouterx "github.com/bluelane/frontdesk/pkg/openrouter"
)

// Role selects which language boundary a model is built for.
type Role string

const (
	RoleUnderstanding Role = "understanding"
	RoleGeneration    Role = "generation"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1500"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Per-role overrides. Understanding wants a cold, schema-faithful
	// model; generation can run warmer.
	UnderstandingModel       string  `envconfig:"UNDERSTANDING_MODEL" split_words:"true"`
	GenerationModel          string  `envconfig:"GENERATION_MODEL" split_words:"true"`
	UnderstandingTemperature float32 `envconfig:"UNDERSTANDING_TEMPERATURE" split_words:"true" default:"-1"`
	GenerationTemperature    float32 `envconfig:"GENERATION_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective model settings for a role.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleUnderstanding:
		if v := strings.TrimSpace(c.UnderstandingModel); v != "" {
			modelName = v
		}
		if c.UnderstandingTemperature >= 0 {
			temp = c.UnderstandingTemperature
		}
	case RoleGeneration:
		if v := strings.TrimSpace(c.GenerationModel); v != "" {
			modelName = v
		}
		if c.GenerationTemperature >= 0 {
			temp = c.GenerationTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
