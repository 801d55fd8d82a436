package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/chatrelay/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step represents a single step in the installation wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// Skipper is implemented by steps that do not apply to every configuration.
type Skipper interface {
	Skip(state *InstallState) bool
}

func getSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewOllamaURLStep(),
		NewCustomURLStep(),
		NewAPIKeyStep(),
		NewModelStep(),
		NewTelegramTokenStep(),
		NewAllowedUsersStep(),
		NewStoreStep(),
		NewSaveEnvStep(),
		NewInitializeFilesStep(),
	}
}

type nextMsg struct{}

// model is the main Bubble Tea model that orchestrates the steps
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	width       int
	height      int
}

func newModel(state *InstallState, steps []Step) model {
	return model{
		steps: steps,
		state: state,
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	nextStep, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if nextStep != nil {
		m.steps[m.currentStep] = nextStep
		return m, cmd
	}

	// Step completed, move to the next one that applies
	m.currentStep++
	for m.currentStep < len(m.steps) {
		if sk, ok := m.steps[m.currentStep].(Skipper); ok && sk.Skip(m.state) {
			m.currentStep++
			continue
		}
		break
	}
	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}
	return m, m.steps[m.currentStep].Init()
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}

	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}

	return titleStyle.Render("Installing "+core.RelayName) + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard starts the TUI
func RunWizard() (*InstallState, error) {
	p := tea.NewProgram(newModel(NewInstallState(), getSteps()), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalModel := m.(model)
	if finalModel.quitting {
		return nil, fmt.Errorf("installation interrupted")
	}

	return finalModel.state, nil
}
