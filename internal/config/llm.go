package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	APIKey   string `env:"OPENAI_API_KEY"`
	BaseURL  string `env:"OPENAI_BASE_URL"`
	Model    string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`

	// Sampling
	MaxTokens        int     `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	Temperature      float32 `env:"LLM_TEMPERATURE" envDefault:"0.66"`
	PresencePenalty  float32 `env:"LLM_PRESENCE_PENALTY" envDefault:"0.66"`
	FrequencyPenalty float32 `env:"LLM_FREQUENCY_PENALTY" envDefault:"0.66"`

	// OpenRouter attribution
	Referrer string `env:"OPENROUTER_REFERRER"`
	Title    string `env:"OPENROUTER_TITLE"`
}

func ParseLLMConfig() (*LLMConfig, error) {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}

	switch c.Provider {
	case ProviderOpenAI, ProviderOpenRouter:
		if c.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderOllama:
	case ProviderCustom:
		if c.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_BASE_URL is required for provider %q", c.Provider)
		}
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", c.Provider)
	}
	return c, nil
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c, err := ParseLLMConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) Params() core.Params {
	return core.Params{
		Model:            c.Model,
		Temperature:      c.Temperature,
		PresencePenalty:  c.PresencePenalty,
		FrequencyPenalty: c.FrequencyPenalty,
		MaxTokens:        c.MaxTokens,
	}
}
