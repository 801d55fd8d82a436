package memory

import (
	"os"
	"strings"

	"github.com/sandevgo/chatrelay/internal/core"
)

type PromptConfig interface {
	GetSystemPath() string
}

// SysPrompt loads the operator's system prompt from the runtime directory.
type SysPrompt struct {
	cfg PromptConfig
}

func NewSysPrompt(cfg PromptConfig) *SysPrompt {
	return &SysPrompt{
		cfg: cfg,
	}
}

// Build returns the system turns to pin at the head of every context.
// A missing or blank SYSTEM.md yields none.
func (p *SysPrompt) Build() []core.Turn {
	content, err := os.ReadFile(p.cfg.GetSystemPath())
	if err != nil {
		return nil
	}
	if strings.TrimSpace(string(content)) == "" {
		return nil
	}
	return []core.Turn{{Role: core.RoleSystem, Content: string(content)}}
}
