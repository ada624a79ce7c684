// Package ui renders the interactive progress view of vanadium transform.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vanadium/internal/driver"
)

// docState is where one document stands in the pipeline.
type docState uint8

const (
	docQueued docState = iota
	docLoading
	docParsing
	docLowering
	docLowered
	docFailed
)

var docStateLabels = [...]string{
	docQueued:   "queued",
	docLoading:  "loading",
	docParsing:  "parsing",
	docLowering: "lowering",
	docLowered:  "done",
	docFailed:   "error",
}

func (s docState) String() string { return docStateLabels[s] }

// weight is the share of a document's work finished in state s.
func (s docState) weight() float64 {
	switch s {
	case docLoading:
		return 0.1
	case docParsing:
		return 0.4
	case docLowering:
		return 0.7
	case docLowered, docFailed:
		return 1
	}
	return 0
}

func (s docState) finished() bool { return s == docLowered || s == docFailed }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyles = [...]lipgloss.Style{
		docQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		docLoading:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		docParsing:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		docLowering: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		docLowered:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		docFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// doc is one row of the view.
type doc struct {
	path   string
	module string
	state  docState
	cached bool
	errors int
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	docs    []doc
	byPath  map[string]int
	phase   string // run-wide stage, from events without a file
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing each document's
// stage, the module it defines once lowered, and whether the lowering came
// from the cache. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		docs:    make([]doc, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	m.bar.Width = m.width - 4
	for i, f := range files {
		m.docs[i] = doc{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
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
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// stateFor maps a driver event onto a document state. ok is false for
// events that do not move a document.
func stateFor(ev driver.Event) (docState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return docQueued, true
	case driver.StatusError:
		return docFailed, true
	case driver.StatusWorking, driver.StatusDone:
		switch ev.Stage {
		case driver.StageLoad:
			return docLoading, true
		case driver.StageParse:
			return docParsing, true
		case driver.StageLower:
			if ev.Status == driver.StatusDone {
				return docLowered, true
			}
			return docLowering, true
		}
	}
	return docQueued, false
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	state, ok := stateFor(ev)
	if !ok {
		return nil
	}
	if ev.File == "" {
		m.phase = state.String()
		return nil
	}
	i, known := m.byPath[ev.File]
	if !known {
		return nil
	}
	d := &m.docs[i]
	if d.state == docFailed {
		// a parse failure is final even though lowering still reports
		return nil
	}
	d.state = state
	if ev.Stage == driver.StageLower && state.finished() {
		d.module = ev.Module
		d.cached = ev.Cached
		d.errors = ev.Errors
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.docs) == 0 {
		return 1
	}
	total := 0.0
	for _, d := range m.docs {
		total += d.state.weight()
	}
	return total / float64(len(m.docs))
}

func (m *progressModel) View() string {
	if len(m.docs) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.phase != "" && !m.done {
		header += " · " + m.phase
	}
	if m.done {
		b.WriteString(titleStyle.Render("✓ " + header))
	} else {
		b.WriteString(m.spinner.View() + " " + titleStyle.Render(header))
	}
	b.WriteString("\n\n")

	modWidth := 0
	for _, d := range m.docs {
		modWidth = max(modWidth, runewidth.StringWidth(d.module))
	}
	modWidth = min(modWidth, m.width/3)
	pathWidth := max(m.width-modWidth-16, 20)

	for _, d := range m.docs {
		state := stateStyles[d.state].Render(fmt.Sprintf("%-8s", d.state))
		mod := runewidth.FillRight(truncate(d.module, modWidth), modWidth)
		line := fmt.Sprintf("  %s %s  %s", state, mod, dimStyle.Render(truncate(d.path, pathWidth)))
		if d.cached {
			line += dimStyle.Render(" (cached)")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(m.summary()))
	b.WriteByte('\n')
	return b.String()
}

// summary is the footer: "3/4 modules · 1 cached · 2 errors".
func (m *progressModel) summary() string {
	finished, cached, errs := 0, 0, 0
	for _, d := range m.docs {
		if d.state.finished() {
			finished++
		}
		if d.cached {
			cached++
		}
		errs += d.errors
	}
	parts := []string{fmt.Sprintf("%d/%d modules", finished, len(m.docs))}
	if cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", cached))
	}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", errs))
	}
	return strings.Join(parts, " · ")
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
