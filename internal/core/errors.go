package core

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrTurnTooLong     = errors.New("turn exceeds token budget")
	ErrBudgetExceeded  = errors.New("pinned turns exceed token budget")
	ErrEmptyCompletion = errors.New("completion returned no choices")
)
