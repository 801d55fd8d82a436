package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/chatrelay/internal/config"
)

var defaultModels = map[string]string{
	config.ProviderOpenAI:     "gpt-3.5-turbo",
	config.ProviderOpenRouter: "openai/gpt-4o-mini",
	config.ProviderOllama:     "llama3.2",
}

func NewProviderStep() Step {
	return &SelectStep{
		title: "Select your completion provider",
		choices: []choice{
			{id: config.ProviderOpenAI, title: "OpenAI"},
			{id: config.ProviderOpenRouter, title: "OpenRouter"},
			{id: config.ProviderOllama, title: "Ollama"},
			{id: config.ProviderCustom, title: "Custom (OpenAI compatible)"},
		},
		apply: func(state *InstallState, id string) {
			state.Env.Provider = id
		},
	}
}

func NewBaseURLStep() Step {
	return &InputStep{
		input: newInput("https://api.example.com/v1", false),
		title: "Enter the API base URL",
		skip: func(state *InstallState) bool {
			return state.Env.Provider != config.ProviderCustom && state.Env.Provider != config.ProviderOllama
		},
		validate: func(v string) error {
			if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
				return fmt.Errorf("the URL must start with http:// or https://")
			}
			return nil
		},
		apply: func(state *InstallState, v string) {
			state.Env.BaseURL = v
		},
	}
}

// NewOllamaURLStep is the optional variant of the base URL step for local Ollama.
func NewOllamaURLStep() Step {
	s := NewBaseURLStep().(*InputStep)
	s.input.Placeholder = "http://localhost:11434/v1"
	s.optional = true
	s.skip = func(state *InstallState) bool { return state.Env.Provider != config.ProviderOllama }
	return s
}

func NewCustomURLStep() Step {
	s := NewBaseURLStep().(*InputStep)
	s.skip = func(state *InstallState) bool { return state.Env.Provider != config.ProviderCustom }
	return s
}

func NewAPIKeyStep() Step {
	return &InputStep{
		input: newInput("sk-...", true),
		title: "Enter the default API key",
		skip: func(state *InstallState) bool {
			return state.Env.Provider == config.ProviderOllama
		},
		apply: func(state *InstallState, v string) {
			state.Env.APIKey = v
		},
	}
}

func NewModelStep() Step {
	return &InputStep{
		input:    newInput("gpt-3.5-turbo", false),
		title:    "Enter the model name",
		optional: true,
		apply: func(state *InstallState, v string) {
			if v == "" {
				v = defaultModels[state.Env.Provider]
			}
			state.Env.Model = v
		},
	}
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		input: newInput("123456789:ABCDEF...", true),
		title: "Enter your Telegram Bot Token",
		validate: func(v string) error {
			if !strings.Contains(v, ":") {
				return fmt.Errorf("a bot token looks like 123456789:ABCDEF")
			}
			return nil
		},
		apply: func(state *InstallState, v string) {
			state.Env.TelegramToken = v
		},
	}
}

func NewAllowedUsersStep() Step {
	return &InputStep{
		input:    newInput("@alice, 123456789", false),
		title:    "Who may talk to the bot? Usernames or user ids, comma separated",
		optional: true,
		apply: func(state *InstallState, v string) {
			state.Env.AllowedUsers, state.Env.AllowedIDs = parseAllowed(v)
		},
	}
}

// parseAllowed splits a comma separated list into usernames and numeric ids.
func parseAllowed(v string) ([]string, []int64) {
	var users []string
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
			continue
		}
		users = append(users, strings.TrimPrefix(part, "@"))
	}
	return users, ids
}

func NewStoreStep() Step {
	return &SelectStep{
		title: "Where should the chat history live",
		choices: []choice{
			{id: config.StoreSQLite, title: "SQLite file (default)"},
			{id: config.StoreBolt, title: "Bolt key/value file"},
			{id: config.StoreMemory, title: "In memory, forgotten on restart"},
		},
		apply: func(state *InstallState, id string) {
			state.Env.Store = id
		},
	}
}
