package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatrelay/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN,required,notEmpty"`

	// Access control; both empty means everyone may talk to the bot
	AllowedUsers []string `env:"TELEGRAM_ALLOWED_USERS" envSeparator:","`
	AllowedIDs   []int64  `env:"TELEGRAM_ALLOWED_IDS" envSeparator:","`

	Greeting    string        `env:"TELEGRAM_GREETING" envDefault:"Hello! I'm ready to work."`
	PollTimeout time.Duration `env:"TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
}

func ParseTelegramConfig() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c, err := ParseTelegramConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}
