package installer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep fills in derived values before the settings are saved
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return next
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(&state.Settings)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(s *Settings) {
	if s.TelegramToken == "" {
		s.EnableTelegram = false
		s.TelegramOwnerID = 0
	}
	// Table hijack waits for the hosts to register their commands.
	if s.Unsafe && s.HijackDelay == 0 {
		s.HijackDelay = time.Second
	}
	if s.Debug == "" {
		s.Debug = "0"
	}
}
