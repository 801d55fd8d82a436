package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	ctx = WithFields(ctx, map[string]string{"chat_id": "telegram-42"})
	FromCtx(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"chat_id":"telegram-42"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestFromCtx_NoLogger(t *testing.T) {
	logger := FromCtx(context.Background())
	assert.NotNil(t, logger)
}
