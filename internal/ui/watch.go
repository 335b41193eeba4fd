package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Snapshot is one refresh of the queue view.
type Snapshot struct {
	Rows    [][]string
	Summary string
}

// RefreshFunc re-runs the query/filter pipeline and returns the rows to
// show. Set by the caller in the cmd package.
type RefreshFunc func() (Snapshot, error)

type watchModel struct {
	table      table.Model
	refresh    RefreshFunc
	interval   time.Duration
	summary    string
	lastUpdate time.Time
	err        error
	width      int
	height     int
}

type watchTickMsg time.Time
type watchRefreshedMsg Snapshot

// newWatchModel builds the live queue view. Columns mirror the one-shot
// report's header.
func newWatchModel(refresh RefreshFunc, interval time.Duration) watchModel {
	columns := []table.Column{
		{Title: "JobID", Width: 12},
		{Title: "JobName", Width: 20},
		{Title: "Mem", Width: 8},
		{Title: "CPUs", Width: 5},
		{Title: "User", Width: 10},
		{Title: "Queue", Width: 10},
		{Title: "State", Width: 6},
		{Title: "Walltime", Width: 18},
		{Title: "%CPU", Width: 5},
		{Title: "%MEM", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return watchModel{table: t, refresh: refresh, interval: interval}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(m.width)
		m.table.SetHeight(m.height - 5)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		}

	case watchTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case watchRefreshedMsg:
		m.summary = msg.Summary
		m.lastUpdate = time.Now()
		m.err = nil
		rows := make([]table.Row, len(msg.Rows))
		for i, r := range msg.Rows {
			rows[i] = table.Row(r)
		}
		m.table.SetRows(rows)
		return m, nil

	case error:
		m.err = msg
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit.", m.err)
	}

	var s strings.Builder
	s.WriteString(WatchTitleStyle.Render(" que: live queue") + "\n")
	s.WriteString(SummaryStyle.Render(m.summary) + "\n")
	s.WriteString(fmt.Sprintf("Last updated: %s (r to refresh, q to quit)\n\n",
		m.lastUpdate.Format(time.RFC1123)))
	s.WriteString(m.table.View())
	return s.String()
}

func (m watchModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.refresh()
		if err != nil {
			return err
		}
		return watchRefreshedMsg(snap)
	}
}

func (m watchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

// RunWatch drives the live view until the user quits.
var RunWatch = func(refresh RefreshFunc, interval time.Duration) error {
	p := tea.NewProgram(newWatchModel(refresh, interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	return nil
}
