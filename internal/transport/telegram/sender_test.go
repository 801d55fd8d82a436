package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	to   tele.Recipient
	text string
	html bool
}

type fakeSender struct {
	out      []sent
	failHTML bool
	failAll  bool
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	text := what.(string)
	html := false
	for _, o := range opts {
		if o == tele.ModeHTML {
			html = true
		}
	}
	if f.failAll || (html && f.failHTML) {
		return nil, errors.New("telegram: bad request: can't parse entities")
	}
	if !utf8.ValidString(text) {
		return nil, errors.New("telegram: bad request: text must be encoded in UTF-8")
	}
	f.out = append(f.out, sent{to: to, text: text, html: html})
	return &tele.Message{}, nil
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{name: "short", text: "hello", maxLen: 10, want: []string{"hello"}},
		{name: "empty", text: "", maxLen: 10, want: nil},
		{name: "split at newline", text: "aaaa\nbbbbbb", maxLen: 8, want: []string{"aaaa", "bbbbbb"}},
		{name: "split at space", text: "aaaa bbbbbb", maxLen: 8, want: []string{"aaaa", "bbbbbb"}},
		{name: "hard split", text: "abcdefghij", maxLen: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "newline too early", text: "a\nbcdefghij", maxLen: 6, want: []string{"a\nbcde", "fghij"}},
		{name: "multibyte runes", text: strings.Repeat("я", 10), maxLen: 5, want: []string{"яя", "яя", "яя", "яя", "яя"}},
		{name: "never inside a tag", text: "aaaaa<b>bold</b>", maxLen: 7, want: []string{"aaaaa", "<b>bold", "</b>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitText(tt.text, tt.maxLen))
		})
	}
}

func TestSplitText_ChunksBounded(t *testing.T) {
	text := strings.Repeat("line of text\n", 1000)
	for _, chunk := range splitText(text, maxTelegramMsgLen) {
		assert.LessOrEqual(t, len(chunk), maxTelegramMsgLen)
	}
}

func TestSender_NonASCIIReplyKeepsEveryWord(t *testing.T) {
	f := &fakeSender{}
	md := "Я" + strings.Repeat("привет ", 700)

	require.NoError(t, newSender(f).sendMarkdown(context.Background(), tele.ChatID(1), md))
	require.Greater(t, len(f.out), 1)

	words := 0
	for _, m := range f.out {
		assert.True(t, m.html, "chunk should go out as HTML")
		assert.True(t, utf8.ValidString(m.text))
		assert.LessOrEqual(t, len(m.text), maxTelegramMsgLen)
		words += len(strings.Fields(m.text))
	}
	assert.Equal(t, 700, words)
}

func TestSender_HTML(t *testing.T) {
	f := &fakeSender{}
	s := newSender(f)

	require.NoError(t, s.sendMarkdown(context.Background(), tele.ChatID(1), "**bold**"))
	require.Len(t, f.out, 1)
	assert.True(t, f.out[0].html)
	assert.Contains(t, f.out[0].text, "<strong>bold</strong>")
}

func TestSender_PlainFallback(t *testing.T) {
	f := &fakeSender{failHTML: true}
	s := newSender(f)

	require.NoError(t, s.sendMarkdown(context.Background(), tele.ChatID(1), "**bold** text"))
	require.Len(t, f.out, 1)
	assert.False(t, f.out[0].html)
	assert.NotContains(t, f.out[0].text, "<strong>")
	assert.Contains(t, f.out[0].text, "text")
}

func TestSender_Failure(t *testing.T) {
	s := newSender(&fakeSender{failAll: true})
	assert.Error(t, s.sendMarkdown(context.Background(), tele.ChatID(1), "hi"))
}

func TestSender_EmptySkipped(t *testing.T) {
	f := &fakeSender{}
	require.NoError(t, newSender(f).sendMarkdown(context.Background(), tele.ChatID(1), "   "))
	assert.Empty(t, f.out)
}
