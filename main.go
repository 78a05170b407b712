package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	dialoguex "github.com/bluelane/frontdesk/agent/agents/dialogue"
	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/generate"
	llmx "github.com/bluelane/frontdesk/agent/llm"
	promptx "github.com/bluelane/frontdesk/agent/prompt"
	recordsx "github.com/bluelane/frontdesk/agent/records"
	statex "github.com/bluelane/frontdesk/agent/state"
	"github.com/bluelane/frontdesk/agent/understand"
	validatex "github.com/bluelane/frontdesk/agent/validate"
	configx "github.com/bluelane/frontdesk/pkg/config"
	_ "github.com/bluelane/frontdesk/pkg/logger/autoload"
	openrouterx "github.com/bluelane/frontdesk/pkg/openrouter"
	qstashx "github.com/bluelane/frontdesk/pkg/qstash"
)

type AppConfig struct {
	SessionBackend   string `envconfig:"SESSION_BACKEND" split_words:"true" default:"memory"`
	RecordsBackend   string `envconfig:"RECORDS_BACKEND" split_words:"true" default:"memory"`
	EventDestination string `envconfig:"EVENT_DESTINATION" split_words:"true"`
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("FRONTDESK")

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	understandingCfg := llmCfg.OpenRouterFor(llmx.RoleUnderstanding)
	verifyOpenRouter(ctx, understandingCfg)

	understandingModel, err := understandingCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build understanding model")
	}
	generationCfg := llmCfg.OpenRouterFor(llmx.RoleGeneration)
	generationModel, err := generationCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build generation model")
	}

	prompts := promptx.LoadPromptSet()
	understander, err := understand.New(ctx, understandingModel, prompts.Understanding)
	if err != nil {
		log.Fatal().Err(err).Msg("build understander")
	}
	generator, err := generate.New(ctx, generationModel, prompts.Generation)
	if err != nil {
		log.Fatal().Err(err).Msg("build generator")
	}

	validator, err := validatex.New(newRecordsStore(ctx, appCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("build validation engine")
	}

	opts := []dialoguex.Option{}
	if dest := strings.TrimSpace(appCfg.EventDestination); dest != "" {
		qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
		opts = append(opts, dialoguex.WithEventPublisher(qstashx.MustNew(*qstashCfg), dest))
	}

	svc, err := dialoguex.New(newSessionStore(appCfg), understander, generator, validator, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("build dialogue service")
	}

	runREPL(ctx, svc)
}

// verifyOpenRouter checks the API key against the models endpoint up
// front so a bad key fails at startup, not on the first user turn. An
// unreachable endpoint is only a warning.
func verifyOpenRouter(ctx context.Context, cfg openrouterx.Config) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		log.Fatal().Msg("openrouter api key is missing")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.Models.List(ctx); err != nil {
		log.Warn().Err(err).Msg("openrouter reachability check failed")
	}
}

func newSessionStore(cfg *AppConfig) statex.Store {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionBackend)) {
	case "", "memory":
		return statex.NewMemoryStore()
	case "upstash":
		redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		store, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build upstash session store")
		}
		return store
	default:
		log.Fatal().Str("backend", cfg.SessionBackend).Msg("unknown session backend")
		return nil
	}
}

func newRecordsStore(ctx context.Context, cfg *AppConfig) recordsx.Store {
	switch strings.ToLower(strings.TrimSpace(cfg.RecordsBackend)) {
	case "", "memory":
		return recordsx.NewMemoryStore()
	case "postgres":
		pgCfg := configx.MustNew[recordsx.PostgresConfig]("POSTGRES")
		store, err := recordsx.NewBunStore(ctx, *pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build postgres records store")
		}
		return store
	default:
		log.Fatal().Str("backend", cfg.RecordsBackend).Msg("unknown records backend")
		return nil
	}
}

func runREPL(ctx context.Context, svc *dialoguex.Service) {
	sessionID := uuid.NewString()
	fmt.Printf("front desk ready (session %s). Empty line quits.\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return
		}

		res, err := svc.HandleTurn(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println(contractx.FallbackReply)
			continue
		}
		fmt.Println(res.Reply)
	}
}
