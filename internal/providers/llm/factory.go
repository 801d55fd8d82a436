package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	ollamaBaseURL     = "http://localhost:11434/v1"

	requestTimeout = 120 * time.Second
)

// NewCompleter creates the completion client for the configured provider.
func NewCompleter(ctx context.Context, cfg *config.LLMConfig) (core.Completer, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	httpClient := &http.Client{Timeout: requestTimeout}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, HTTPClient: httpClient}), nil
	case config.ProviderOpenRouter:
		referrer, title := cfg.Referrer, cfg.Title
		if referrer == "" {
			referrer = core.RelayRepositoryURL
		}
		if title == "" {
			title = core.RelayName
		}
		h := http.Header{}
		h.Set("HTTP-Referer", referrer)
		h.Set("X-Title", title)
		return NewOpenAI(OpenAIConfig{
			BaseURL:    orDefault(cfg.BaseURL, openRouterBaseURL),
			APIKey:     cfg.APIKey,
			HTTPClient: withHeaders(httpClient, h),
		}), nil
	case config.ProviderOllama:
		return NewOpenAI(OpenAIConfig{BaseURL: orDefault(cfg.BaseURL, ollamaBaseURL), APIKey: cfg.APIKey, HTTPClient: httpClient}), nil
	case config.ProviderCustom:
		return NewOpenAI(OpenAIConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, HTTPClient: httpClient}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
