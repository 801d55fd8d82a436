package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/retry"
	"github.com/sashabaranov/go-openai"
)

const defaultMaxClients = 64

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// One client per API key; cleared or rotated keys age out.
	clients *lru.Cache[string, *openai.Client]
}

type OpenAIConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// MaxClients bounds the per-key client cache, 64 when zero.
	MaxClients int
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	size := cfg.MaxClients
	if size <= 0 {
		size = defaultMaxClients
	}
	// New only fails for a non-positive size
	clients, _ := lru.New[string, *openai.Client](size)

	return &OpenAI{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		clients:    clients,
	}
}

func (o *OpenAI) Complete(ctx context.Context, req core.CompletionRequest) (core.Completion, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: t.Role, Content: t.Content})
	}

	resp, err := o.client(req.APIKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            req.Params.Model,
		Messages:         msgs,
		MaxTokens:        req.Params.MaxTokens,
		Temperature:      req.Params.Temperature,
		PresencePenalty:  req.Params.PresencePenalty,
		FrequencyPenalty: req.Params.FrequencyPenalty,
	})
	if err != nil {
		return core.Completion{}, classify(fmt.Errorf("failed to create chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return core.Completion{}, retry.Permanent(core.ErrEmptyCompletion)
	}

	return core.Completion{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// client returns a cached client for apiKey, the default key when empty.
func (o *OpenAI) client(apiKey string) *openai.Client {
	if apiKey == "" {
		apiKey = o.apiKey
	}

	if c, ok := o.clients.Get(apiKey); ok {
		return c
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}
	c := openai.NewClientWithConfig(cfg)

	// A concurrent caller may have won the race, keep its client
	if prev, ok, _ := o.clients.PeekOrAdd(apiKey, c); ok {
		return prev
	}
	return c
}

// classify marks client-side API failures (bad key, bad request) as permanent.
// Rate limits and server errors stay retryable.
func classify(err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}
