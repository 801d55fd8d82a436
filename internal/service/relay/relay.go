package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/service/budget"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/sandevgo/chatrelay/pkg/retry"
	"golang.org/x/sync/semaphore"
)

// ErrorPrefix starts every reply that reports a rejected message back to the user.
const ErrorPrefix = "Error: "

type Memory interface {
	Context(ctx context.Context, chatID string) ([]core.Turn, error)
	Save(ctx context.Context, chatID string, turns ...core.Turn) error
}

type CredentialReader interface {
	Credential(ctx context.Context, chatID string) (string, error)
}

type Options struct {
	Params      core.Params
	TokenBudget int
	Workers     int
	Retrier     *retry.Retrier
}

// Relay turns one inbound chat message into one completion reply.
type Relay struct {
	memory    Memory
	creds     CredentialReader
	completer core.Completer
	counter   budget.Counter

	params  core.Params
	budget  int
	pool    *semaphore.Weighted
	retrier *retry.Retrier
	locks   *chatLocks
}

func NewRelay(memory Memory, creds CredentialReader, completer core.Completer, counter budget.Counter, opts Options) *Relay {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Retrier == nil {
		opts.Retrier = retry.NewRetrier(retry.NewOnceConfig())
	}
	return &Relay{
		memory:    memory,
		creds:     creds,
		completer: completer,
		counter:   counter,
		params:    opts.Params,
		budget:    opts.TokenBudget,
		pool:      semaphore.NewWeighted(int64(opts.Workers)),
		retrier:   opts.Retrier,
		locks:     newChatLocks(),
	}
}

// Reply returns the assistant's answer to msg.
//
// Messages that do not fit the token budget produce an "Error: ..." reply and a
// nil error. An empty completion produces an empty reply. In both cases nothing
// is stored.
func (r *Relay) Reply(ctx context.Context, msg core.Inbound) (string, error) {
	l := log.FromCtx(ctx).With().
		Int64("sender_id", msg.SenderID).
		Str("username", msg.Username).
		Logger()
	ctx = l.WithContext(ctx)
	logger := &l

	unlock := r.locks.Lock(msg.ChatID)
	defer unlock()

	history, err := r.memory.Context(ctx, msg.ChatID)
	if err != nil {
		return "", fmt.Errorf("failed to build context: %w", err)
	}

	history = r.dropOversized(ctx, history)

	userTurn := core.Turn{Role: core.RoleUser, Content: msg.Text}
	turns, err := budget.Truncate(r.counter, append(history, userTurn), r.budget)
	if err != nil {
		if errors.Is(err, core.ErrTurnTooLong) || errors.Is(err, core.ErrBudgetExceeded) {
			logger.Warn().Err(err).Msg("message rejected by token budget")
			return ErrorPrefix + err.Error(), nil
		}
		return "", fmt.Errorf("failed to truncate context: %w", err)
	}
	if dropped := len(history) + 1 - len(turns); dropped > 0 {
		logger.Debug().Int("dropped", dropped).Msg("history truncated")
	}

	apiKey, err := r.creds.Credential(ctx, msg.ChatID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("failed to get credential: %w", err)
	}

	completion, err := r.complete(ctx, core.CompletionRequest{
		Turns:  turns,
		Params: r.params,
		APIKey: apiKey,
	})
	if err != nil {
		if errors.Is(err, core.ErrEmptyCompletion) {
			logger.Debug().Msg("completion has no choices, nothing to reply")
			return "", nil
		}
		return "", err
	}

	reply := strings.TrimSpace(completion.Content)
	if reply == "" {
		logger.Debug().Msg("completion is empty, nothing to reply")
		return "", nil
	}

	logger.Info().
		Str("model", completion.Model).
		Int("prompt_tokens", completion.PromptTokens).
		Int("completion_tokens", completion.CompletionTokens).
		Msg("completion received")

	if err := r.memory.Save(ctx, msg.ChatID, userTurn, core.Turn{Role: core.RoleAssistant, Content: reply}); err != nil {
		logger.Error().Err(err).Msg("failed to save turns")
	}

	return reply, nil
}

// dropOversized removes stored turns that could never fit the budget, which
// happens after the budget is lowered. System turns are left for Truncate to reject.
func (r *Relay) dropOversized(ctx context.Context, history []core.Turn) []core.Turn {
	kept := history[:0:0]
	for _, t := range history {
		if t.Role != core.RoleSystem && r.counter.Count(t) > r.budget {
			continue
		}
		kept = append(kept, t)
	}
	if dropped := len(history) - len(kept); dropped > 0 {
		log.FromCtx(ctx).Warn().Int("dropped", dropped).Msg("history turns larger than the token budget skipped")
	}
	return kept
}

func (r *Relay) complete(ctx context.Context, req core.CompletionRequest) (core.Completion, error) {
	if err := r.pool.Acquire(ctx, 1); err != nil {
		return core.Completion{}, fmt.Errorf("failed to acquire completion slot: %w", err)
	}
	defer r.pool.Release(1)

	var completion core.Completion
	err := r.retrier.Do(ctx, func() error {
		var err error
		completion, err = r.completer.Complete(ctx, req)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("completion attempt failed")
		}
		return err
	})
	if err != nil {
		return core.Completion{}, fmt.Errorf("failed to complete: %w", err)
	}
	return completion, nil
}
