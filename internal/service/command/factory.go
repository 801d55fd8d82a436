package command

import (
	"github.com/sandevgo/chatrelay/internal/core"
)

// NewRouter wires the chat commands. /help lists everything, itself included.
func NewRouter(greeting string, memory Resetter, creds core.CredentialStore) *Router {
	r := New([]core.Command{
		NewStartCommand(greeting),
		NewResetCommand(memory),
		NewKeyCommand(creds),
	})
	r.Register(NewHelpCommand(r))
	return r
}
