package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/chatrelay/pkg/conv"
	"github.com/sandevgo/chatrelay/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	maxTelegramMsgLen = 4000 // Safety margin below 4096

	// Rendering adds tags and entities, so Markdown is cut well below the limit.
	maxMarkdownChunkLen = 3000
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot messageSender
}

func newSender(bot messageSender) *sender {
	return &sender{bot: bot}
}

// sendMarkdown splits Markdown into chunks, renders each one to Telegram HTML
// and sends it. A chunk Telegram refuses to parse is sent again as plain text.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)

	i := 0
	for _, part := range splitText(strings.TrimSpace(md), maxMarkdownChunkLen) {
		html := conv.ReplyHTML(part)
		if html == "" {
			continue
		}

		for _, chunk := range splitText(html, maxTelegramMsgLen) {
			_, err := s.bot.Send(to, chunk, tele.ModeHTML)
			if err != nil {
				logger.Warn().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send html chunk, falling back to plain text")

				if _, err := s.bot.Send(to, conv.HTMLToPlain(chunk)); err != nil {
					return fmt.Errorf("failed to send chunk %d: %w", i, err)
				}
			}
			i++
		}
	}
	return nil
}

// splitText cuts text into chunks of at most maxLen bytes. It prefers a
// newline, then a space, and never cuts through a UTF-8 sequence or an
// HTML tag.
func splitText(text string, maxLen int) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	for len(text) > maxLen {
		cut := cutPoint(text, maxLen)
		chunks = append(chunks, strings.TrimRight(text[:cut], " \n"))
		text = strings.TrimLeft(text[cut:], " \n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func cutPoint(text string, maxLen int) int {
	head := text[:maxLen]

	cut := maxLen
	if idx := strings.LastIndexByte(head, '\n'); idx > maxLen/3 {
		cut = idx
	} else if idx := strings.LastIndexByte(head, ' '); idx > maxLen/3 {
		cut = idx
	}

	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	// Step back out of an unclosed tag
	if open := strings.LastIndexByte(text[:cut], '<'); open > 0 && open > strings.LastIndexByte(text[:cut], '>') {
		cut = open
	}
	if cut == 0 {
		cut = maxLen
	}
	return cut
}
