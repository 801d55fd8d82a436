package core

import (
	"fmt"
	"time"
)

const (
	RelayName          = "ChatRelay"
	RelayRepositoryURL = "https://github.com/sandevgo/chatrelay"
	RelayVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Inbound is a text message received from a chat transport.
type Inbound struct {
	ChatID   string
	SenderID int64
	Username string
	Text     string
}

// ChatID builds the chat identifier used as the storage key for a transport chat.
func ChatID(transport string, id int64) string {
	return fmt.Sprintf("%s-%d", transport, id)
}

// Params are the sampling parameters sent with every completion request.
type Params struct {
	Model            string
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
	MaxTokens        int
}

type CompletionRequest struct {
	Turns  []Turn
	Params Params
	// APIKey overrides the provider's default credential when set.
	APIKey string
}

type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}
