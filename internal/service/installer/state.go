package installer

import "github.com/sandevgo/chatrelay/internal/config"

// EnvFile is what the wizard writes to .env. Empty fields are left out so the
// defaults of the config structs apply.
type EnvFile struct {
	Provider      string   `env:"LLM_PROVIDER"`
	APIKey        string   `env:"OPENAI_API_KEY"`
	BaseURL       string   `env:"OPENAI_BASE_URL"`
	Model         string   `env:"OPENAI_MODEL"`
	TelegramToken string   `env:"TELEGRAM_TOKEN"`
	AllowedUsers  []string `env:"TELEGRAM_ALLOWED_USERS" envSeparator:","`
	AllowedIDs    []int64  `env:"TELEGRAM_ALLOWED_IDS" envSeparator:","`
	Store         string   `env:"RELAY_STORE"`
}

type InstallState struct {
	RuntimePath string
	Env         EnvFile
}

func NewInstallState() *InstallState {
	return &InstallState{
		RuntimePath: config.GetRuntimePath(),
	}
}
