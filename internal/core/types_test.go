package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatID(t *testing.T) {
	assert.Equal(t, "telegram-42", ChatID("telegram", 42))
	assert.Equal(t, "telegram--100123", ChatID("telegram", -100123))
}
