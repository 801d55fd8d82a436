package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
	"github.com/sandevgo/chatrelay/pkg/retry"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

const (
	baseContextKey = "base_context"
	transportName  = "telegram"

	FailureReply = "Sorry, something went wrong while processing your request. Please try again."
)

type Replier interface {
	Reply(ctx context.Context, msg core.Inbound) (string, error)
}

type ACL interface {
	Allowed(id int64, username string) bool
}

type Bot struct {
	bot     *tele.Bot
	api     messageSender
	relay   Replier
	router  core.CmdRouter
	acl     ACL
	sender  *sender
	retrier *retry.Retrier
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	relay Replier,
	router core.CmdRouter,
	acl ACL,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(requestCtx(c, ctx)).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		api:     b,
		relay:   relay,
		router:  router,
		acl:     acl,
		sender:  newSender(b),
		retrier: retry.NewRetrier(retry.NewOnceConfig()),
	}

	// Request scoped logger on top of the signal context
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			fields := map[string]string{"request_id": uuid.NewString()}
			if chat := c.Chat(); chat != nil {
				fields["chat_id"] = core.ChatID(transportName, chat.ID)
			}
			c.Set(baseContextKey, log.WithFields(ctx, fields))
			return next(c)
		}
	})

	b.Use(middleware.Recover(logPanic(ctx)))

	// Ignore senders outside the ACL
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !bot.allowed(c.Sender()) {
				ev := log.FromCtx(requestCtx(c, ctx)).Warn()
				if s := c.Sender(); s != nil {
					ev = ev.Int64("sender_id", s.ID).Str("username", s.Username)
				}
				ev.Msg("sender is not allowed, message ignored")
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("username", b.bot.Me.Username).Msg("starting telegram bot")

	if err := b.bot.SetCommands(menu(b.router.ListCommands())); err != nil {
		logger.Warn().Err(err).Msg("failed to register command menu")
	}

	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("stopping telegram bot")
	b.bot.Stop()
	return nil
}

func (b *Bot) allowed(sender *tele.User) bool {
	if sender == nil {
		return false
	}
	return b.acl.Allowed(sender.ID, sender.Username)
}

// incoming is a text message detached from the telebot context.
type incoming struct {
	chat   *tele.Chat
	sender *tele.User
	text   string
	typing func()
	remove func() error
}

func (b *Bot) handleMessage(c tele.Context) error {
	return b.handle(requestCtx(c, context.Background()), incoming{
		chat:   c.Chat(),
		sender: c.Sender(),
		text:   c.Text(),
		typing: func() { _ = c.Notify(tele.Typing) },
		remove: c.Delete,
	})
}

func (b *Bot) handle(ctx context.Context, in incoming) error {
	logger := log.FromCtx(ctx)
	chatID := core.ChatID(transportName, in.chat.ID)

	if out, ok := b.router.Execute(ctx, chatID, in.text); ok {
		if carriesSecret(in.text) {
			if err := in.remove(); err != nil {
				logger.Warn().Err(err).Msg("failed to delete message with api key")
			}
		}
		return b.sender.sendMarkdown(ctx, in.chat, out)
	}

	in.typing()

	msg := core.Inbound{
		ChatID:   chatID,
		SenderID: in.sender.ID,
		Username: in.sender.Username,
		Text:     in.text,
	}
	reply, err := b.relay.Reply(ctx, msg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to relay message")
		return b.sendFailure(ctx, in.chat)
	}
	if reply == "" {
		return nil
	}

	return b.sender.sendMarkdown(ctx, in.chat, reply)
}

func (b *Bot) sendFailure(ctx context.Context, to tele.Recipient) error {
	err := b.retrier.Do(ctx, func() error {
		_, err := b.api.Send(to, FailureReply)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to send failure reply: %w", err)
	}
	return nil
}

// logPanic reports a recovered handler panic on the request logger.
func logPanic(fallback context.Context) middleware.RecoverFunc {
	return func(err error, c tele.Context) {
		log.FromCtx(requestCtx(c, fallback)).Error().Err(err).Msg("telegram handler panicked")
	}
}

func requestCtx(c tele.Context, fallback context.Context) context.Context {
	if c == nil {
		return fallback
	}
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return fallback
}

// carriesSecret reports whether text is a /key command with an argument other than clear.
func carriesSecret(text string) bool {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return false
	}
	name, _, _ := strings.Cut(parts[0], "@")
	return name == "/key" && parts[1] != "clear"
}

func menu(cmds []core.Command) []tele.Command {
	res := make([]tele.Command, 0, len(cmds))
	for _, cmd := range cmds {
		res = append(res, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	return res
}
