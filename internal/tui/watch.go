// Package tui implements the `paipai watch` status dashboard
// (SPEC_FULL.md §2/§6): a bubbletea program that tails the driver's
// status snapshot file and renders live step/accept/energy counters. It
// never touches coordinator state — purely an operator-facing read-only
// view.
package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type snapshot struct {
	MCSteps       int     `json:"mc_steps"`
	AcceptCount   int     `json:"accept_count"`
	CurrentEnergy float64 `json:"current_energy"`
	Seeded        bool    `json:"seeded"`
	Steps         int     `json:"steps_budget"`
}

type tickMsg time.Time

type model struct {
	statusPath string
	last       snapshot
	err        error
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func pollTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return pollTick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		data, err := os.ReadFile(m.statusPath)
		if err != nil {
			m.err = err
			return m, pollTick()
		}
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			m.last = snap
			m.err = nil
		}
		return m, pollTick()
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("%s\n(waiting for %s)\n", m.err, m.statusPath)
	}
	return fmt.Sprintf(
		"%s %s / %s\n%s %s\n%s %.12g\n\n%s\n",
		labelStyle.Render("steps:"), valueStyle.Render(fmt.Sprint(m.last.MCSteps)), valueStyle.Render(fmt.Sprint(m.last.Steps)),
		labelStyle.Render("accepts:"), valueStyle.Render(fmt.Sprint(m.last.AcceptCount)),
		labelStyle.Render("energy:"), m.last.CurrentEnergy,
		lipgloss.NewStyle().Faint(true).Render("press q to quit"),
	)
}

// Run launches the watch TUI against statusPath until the user quits.
func Run(statusPath string) error {
	p := tea.NewProgram(model{statusPath: statusPath})
	_, err := p.Run()
	return err
}
