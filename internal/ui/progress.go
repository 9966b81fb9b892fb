// Package ui implements the bubbletea compile-progress view `urdc build`
// drives. Stages past PARSE operate on the whole symbol table at once
// rather than file-by-file (see internal/compiler's Event, which carries
// no per-file identity), so the model tracks one row per Stage instead
// of one row per source file.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/urdwyrd/urdc/internal/compiler"
)

var stageOrder = []compiler.Stage{
	compiler.StageParse,
	compiler.StageLink,
	compiler.StageValidate,
	compiler.StageAnalyze,
	compiler.StageEmit,
}

type stageRow struct {
	stage  compiler.Stage
	status string
}

type progressModel struct {
	title   string
	events  <-chan compiler.Event
	spinner spinner.Model
	prog    progress.Model
	rows    []stageRow
	index   map[compiler.Stage]int
	done    bool
	failed  bool
}

type eventMsg compiler.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model rendering live PARSE ->
// LINK -> VALIDATE -> ANALYZE -> EMIT progress, fed by events.
func NewProgressModel(title string, events <-chan compiler.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	rows := make([]stageRow, len(stageOrder))
	index := make(map[compiler.Stage]int, len(stageOrder))
	for i, s := range stageOrder {
		rows[i] = stageRow{stage: s, status: "queued"}
		index[s] = i
	}
	return &progressModel{title: title, events: events, spinner: sp, prog: prog, rows: rows, index: index}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(compiler.Event(msg))
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev compiler.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	switch ev.Status {
	case compiler.StatusWorking:
		m.rows[idx].status = "running"
	case compiler.StatusDone:
		m.rows[idx].status = "done"
	case compiler.StatusError:
		m.rows[idx].status = "error"
		m.failed = true
	}
	done := 0
	for _, r := range m.rows {
		if r.status == "done" || r.status == "error" {
			done++
		}
	}
	return m.prog.SetPercent(float64(done) / float64(len(m.rows)))
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		if m.failed {
			header = fmt.Sprintf("failed: %s", header)
		} else {
			header = fmt.Sprintf("done: %s", header)
		}
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	for _, r := range m.rows {
		line := fmt.Sprintf("  %s %s", styleStatus(r.status).Render(fmt.Sprintf("%8s", r.status)), r.stage)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}
