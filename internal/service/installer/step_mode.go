package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	modePassive     = "passive"
	modeTableHijack = "table-hijack"
)

// ModeStep picks the interception mode
type ModeStep struct {
	list list.Model
}

func NewModeStep() Step {
	items := []list.Item{
		item{
			id:    modePassive,
			title: "Passive",
			desc:  "Watch chat for commands with <placeholders>. Safe everywhere.",
		},
		item{
			id:    modeTableHijack,
			title: "Table hijack",
			desc:  "Wrap the command tables so prompts start after permission checks.",
		},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select interception mode"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return &ModeStep{list: l}
}

func (s *ModeStep) Init() tea.Cmd {
	return nil
}

func (s *ModeStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.list.SetSize(width, height-4)

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if i, ok := s.list.SelectedItem().(item); ok {
			state.Settings.Unsafe = i.id == modeTableHijack
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModeStep) View(state *InstallState) string {
	return s.list.View()
}
