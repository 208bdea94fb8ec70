package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavefield/stereometer/pkg/appstate"
	"github.com/wavefield/stereometer/pkg/meterstate"
	"github.com/wavefield/stereometer/pkg/scheduler"
)

const tickInterval = 50 * time.Millisecond

// tickMsg drives periodic re-renders; it carries no payload since the
// model pulls the latest published snapshot itself.
type tickMsg struct{}

// model is the Bubbletea UI: it holds nothing but a reference to the
// scheduler and the last snapshot pulled from it, matching the
// "widgets are pure readers of MeterState" framing.
type model struct {
	sched      *scheduler.Scheduler
	state      *appstate.Store
	presetName string

	width, height int
	snap          meterstate.Snapshot
}

func newModel(sched *scheduler.Scheduler, state *appstate.Store, presetName string) model {
	return model{sched: sched, state: state, presetName: presetName}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.snap = m.sched.Snapshot()
		return m, tickCmd()
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing...\n"
	}
	return renderDashboard(m)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}
