// Package ui renders bench progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"strata/internal/bench"
)

type progressModel struct {
	title    string
	events   <-chan bench.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []workloadItem
	index    map[string]int
	finished int
	width    int
	done     bool
}

type workloadItem struct {
	name    string
	status  bench.Status
	elapsed time.Duration
}

type eventMsg bench.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one line per
// workload until events is closed.
func NewProgressModel(title string, workloads []string, events <-chan bench.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]workloadItem, 0, len(workloads))
	index := make(map[string]int, len(workloads))
	for i, name := range workloads {
		items = append(items, workloadItem{name: name, status: bench.StatusQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(bench.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 8
	nameWidth := m.width - statusWidth - 16
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		line := fmt.Sprintf("  %s %s", status, pad(truncate(item.name, nameWidth), nameWidth))
		if item.elapsed > 0 {
			line += fmt.Sprintf(" %8.1fms", float64(item.elapsed.Microseconds())/1000)
		}
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

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev bench.Event) tea.Cmd {
	idx, ok := m.index[ev.Workload]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	wasFinished := isFinished(item.status)
	item.status = ev.Status
	if ev.Elapsed > 0 {
		item.elapsed = ev.Elapsed
	}
	if !wasFinished && isFinished(item.status) {
		m.finished++
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch {
		case isFinished(item.status):
			total += 1.0
		case item.status == bench.StatusWorking:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func isFinished(s bench.Status) bool {
	return s == bench.StatusDone || s == bench.StatusError
}

func styleStatus(status bench.Status) lipgloss.Style {
	switch status {
	case bench.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case bench.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case bench.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}
