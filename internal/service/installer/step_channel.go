package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

const (
	channelConsole  = "Console"
	channelTelegram = "Telegram"
	channelBoth     = "Console and Telegram"
)

// ChannelStep picks the transports to enable
type ChannelStep struct {
	choices []string
	cursor  int
}

func NewChannelStep() Step {
	return &ChannelStep{
		choices: []string{channelConsole, channelTelegram, channelBoth},
		cursor:  0,
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			choice := s.choices[s.cursor]
			console := choice != channelTelegram
			state.Settings.EnableConsole = &console
			state.Settings.EnableTelegram = choice != channelConsole
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return renderChoices("Where will you type commands?", s.choices, s.cursor)
}
