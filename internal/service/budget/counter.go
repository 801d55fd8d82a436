package budget

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/chatrelay/internal/core"
)

const (
	defaultEncoding = "cl100k_base"

	// Chat framing per message: <|start|>{role}\n{content}<|end|>\n
	tokensPerTurn = 3
	tokensPerRole = 1
)

type Counter interface {
	Count(turn core.Turn) int
}

// TiktokenCounter counts turns with the BPE encoding of the target model.
type TiktokenCounter struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter picks the encoding for model, falling back to cl100k_base
// for models tiktoken does not know (OpenRouter and Ollama names mostly).
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(defaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
		}
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(turn core.Turn) int {
	c.mu.Lock()
	n := len(c.enc.Encode(turn.Content, nil, nil))
	c.mu.Unlock()
	return n + tokensPerTurn + tokensPerRole
}

// CounterFunc adapts a plain function to Counter.
type CounterFunc func(turn core.Turn) int

func (f CounterFunc) Count(turn core.Turn) int { return f(turn) }
