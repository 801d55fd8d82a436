package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one line of text.
type InputStep struct {
	input    textinput.Model
	title    string
	optional bool
	err      error

	skip     func(state *InstallState) bool
	validate func(value string) error
	apply    func(state *InstallState, value string)
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.optional {
			s.err = fmt.Errorf("a value is required")
			return s, cmd
		}
		if s.validate != nil && val != "" {
			if err := s.validate(val); err != nil {
				s.err = err
				return s, cmd
			}
		}
		s.apply(state, val)
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := ""
	if s.optional {
		hint = " (optional, press Enter to skip)"
	}
	out := fmt.Sprintf("%s%s:\n\n%s\n\n", s.title, hint, s.input.View())
	if s.err != nil {
		out += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}
