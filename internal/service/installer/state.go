package installer

import "time"

// Settings is what the wizard writes to the runtime .env file. Unset fields
// are left out so the application defaults apply.
type Settings struct {
	EnableConsole   *bool         `env:"ENABLE_CONSOLE"`
	EnableTelegram  bool          `env:"ENABLE_TELEGRAM"`
	TelegramToken   string        `env:"TELEGRAM_TOKEN"`
	TelegramOwnerID int64         `env:"TELEGRAM_OWNER_ID"`
	Unsafe          bool          `env:"PROMPTER_UNSAFE"`
	HijackDelay     time.Duration `env:"PROMPTER_HIJACK_DELAY"`
	Prefix          string        `env:"PROMPTER_PREFIX"`
	HistoryLimit    int           `env:"PROMPTER_HISTORY_LIMIT"`
	Debug           string        `env:"PROMPTER_DEBUG"`
}

type InstallState struct {
	RuntimePath string
	Settings    Settings
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{
		RuntimePath: runtimePath,
	}
}
