package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	id    string
	title string
}

// SelectStep lets the user pick one of a fixed set of options.
type SelectStep struct {
	title   string
	choices []choice
	cursor  int
	apply   func(state *InstallState, id string)
}

func (s *SelectStep) Init() tea.Cmd {
	return nil
}

func (s *SelectStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
			s.apply(state, s.choices[s.cursor].id)
			return nil, nil
		}
	}
	return s, nil
}

func (s *SelectStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + ":\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.title)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.title)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
