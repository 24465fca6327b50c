package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultPrefix = "› "

// PrefixStep collects the text put in front of every prompt line. An empty
// answer keeps the default.
type PrefixStep struct {
	input textinput.Model
}

func NewPrefixStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 16
	ti.Width = 20
	ti.Placeholder = defaultPrefix

	return &PrefixStep{input: ti}
}

func (s *PrefixStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *PrefixStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if v := s.input.Value(); v != "" && v != defaultPrefix {
			state.Settings.Prefix = v
		}
		return nil, nil
	}
	return s, cmd
}

func (s *PrefixStep) View(state *InstallState) string {
	return "Prompt prefix (leave empty for \"" + defaultPrefix + "\"):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
