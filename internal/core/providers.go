package core

import "context"

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
