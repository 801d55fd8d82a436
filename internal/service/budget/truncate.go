package budget

import (
	"fmt"

	"github.com/sandevgo/chatrelay/internal/core"
)

// TurnTooLongError reports a single turn that cannot fit into the budget on its own.
type TurnTooLongError struct {
	Index  int
	Tokens int
	Limit  int
}

func (e *TurnTooLongError) Error() string {
	return fmt.Sprintf("the message contains %d tokens, which exceeds the limit (%d)", e.Tokens, e.Limit)
}

func (e *TurnTooLongError) Unwrap() error { return core.ErrTurnTooLong }

// Truncate drops the oldest turns until the total fits into limit tokens.
//
// System turns are pinned and the newest turn is always kept. The input slice
// is left untouched and the result keeps chronological order.
func Truncate(counter Counter, turns []core.Turn, limit int) ([]core.Turn, error) {
	if len(turns) == 0 {
		return nil, nil
	}

	sizes := make([]int, len(turns))
	total := 0
	for i, t := range turns {
		n := counter.Count(t)
		if n > limit {
			return nil, &TurnTooLongError{Index: i, Tokens: n, Limit: limit}
		}
		sizes[i] = n
		total += n
	}

	last := len(turns) - 1
	dropped := make([]bool, len(turns))
	for i := 0; total > limit && i < last; i++ {
		if turns[i].Role == core.RoleSystem {
			continue
		}
		dropped[i] = true
		total -= sizes[i]
	}

	if total > limit {
		return nil, fmt.Errorf("%w: %d tokens left after dropping history, limit %d", core.ErrBudgetExceeded, total, limit)
	}

	out := make([]core.Turn, 0, len(turns))
	for i, t := range turns {
		if !dropped[i] {
			out = append(out, t)
		}
	}
	return out, nil
}
