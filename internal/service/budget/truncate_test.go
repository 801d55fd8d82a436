package budget

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordCounter counts whitespace separated words, one token each.
var wordCounter = CounterFunc(func(t core.Turn) int {
	return len(strings.Fields(t.Content))
})

func user(s string) core.Turn      { return core.Turn{Role: core.RoleUser, Content: s} }
func assistant(s string) core.Turn { return core.Turn{Role: core.RoleAssistant, Content: s} }
func system(s string) core.Turn    { return core.Turn{Role: core.RoleSystem, Content: s} }

func contents(turns []core.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Content
	}
	return out
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		turns    []core.Turn
		limit    int
		expected []string
	}{
		{
			name:     "empty",
			turns:    nil,
			limit:    10,
			expected: []string{},
		},
		{
			name:     "fits untouched",
			turns:    []core.Turn{user("a b"), assistant("c d"), user("e")},
			limit:    5,
			expected: []string{"a b", "c d", "e"},
		},
		{
			name:     "drops oldest first",
			turns:    []core.Turn{user("a b c"), assistant("d e"), user("f g")},
			limit:    4,
			expected: []string{"d e", "f g"},
		},
		{
			name:     "drops until under budget",
			turns:    []core.Turn{user("one two"), assistant("three four"), user("five six"), assistant("seven"), user("eight")},
			limit:    2,
			expected: []string{"seven", "eight"},
		},
		{
			name:     "system turn pinned",
			turns:    []core.Turn{system("be brief"), user("a b c"), assistant("d"), user("e")},
			limit:    4,
			expected: []string{"be brief", "d", "e"},
		},
		{
			name:     "exactly at budget",
			turns:    []core.Turn{user("a b"), user("c d")},
			limit:    4,
			expected: []string{"a b", "c d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Truncate(wordCounter, tt.turns, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, contents(got))
			assert.LessOrEqual(t, total(wordCounter, got), tt.limit)
		})
	}
}

func TestTruncate_SingleTurnTooLong(t *testing.T) {
	turns := []core.Turn{user("short"), user("one two three four five")}

	_, err := Truncate(wordCounter, turns, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTurnTooLong))

	var tooLong *TurnTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, 1, tooLong.Index)
	assert.Equal(t, 5, tooLong.Tokens)
	assert.Equal(t, 3, tooLong.Limit)
	assert.Equal(t, "the message contains 5 tokens, which exceeds the limit (3)", err.Error())
}

func TestTruncate_PinnedOverBudget(t *testing.T) {
	turns := []core.Turn{system("a b c"), user("d e f")}

	_, err := Truncate(wordCounter, turns, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrBudgetExceeded))
}

func TestTruncate_DoesNotMutateInput(t *testing.T) {
	turns := []core.Turn{user("a b c"), assistant("d e"), user("f")}
	snapshot := append([]core.Turn(nil), turns...)

	_, err := Truncate(wordCounter, turns, 3)
	require.NoError(t, err)
	assert.Equal(t, snapshot, turns)
}

// Any budget at least as large as the biggest turn yields a suffix of the
// non-system history that fits.
func TestTruncate_KeepsMostRecentSuffix(t *testing.T) {
	turns := []core.Turn{
		user("a"), assistant("b c"), user("d e f"), assistant("g"), user("h i"), assistant("j k l m"), user("n"),
	}

	for limit := 4; limit <= 16; limit++ {
		got, err := Truncate(wordCounter, turns, limit)
		require.NoError(t, err, "limit %d", limit)
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, total(wordCounter, got), limit, "limit %d", limit)

		offset := len(turns) - len(got)
		assert.Equal(t, turns[offset:], got, "limit %d: result must be the newest turns in order", limit)
	}
}

func TestTiktokenCounter(t *testing.T) {
	counter, err := NewTiktokenCounter("gpt-3.5-turbo")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	empty := counter.Count(user(""))
	assert.Equal(t, tokensPerTurn+tokensPerRole, empty)

	hello := counter.Count(user("Hello world"))
	assert.Equal(t, empty+2, hello)
}

func TestTiktokenCounter_UnknownModel(t *testing.T) {
	counter, err := NewTiktokenCounter("google/gemma-3-27b-it:free")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	assert.Greater(t, counter.Count(user("Привет мир")), tokensPerTurn+tokensPerRole)
}

func total(counter Counter, turns []core.Turn) int {
	n := 0
	for _, t := range turns {
		n += counter.Count(t)
	}
	return n
}
