// Package ui provides the terminal user interface using Bubble Tea.
// It renders the scan trace live as the searches walk away from the
// standard event times.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/search"
	"github.com/litescript/ridgeline/internal/version"
)

// How many trace rows the step panel keeps on screen.
const traceRows = 12

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// StepMsg carries one scan step as it is sampled.
	StepMsg struct {
		Event string // "sunrise" or "sunset"
		Step  search.Step
	}

	// ResultMsg signals one event search finished.
	ResultMsg struct {
		Event  string
		Result search.Result
	}

	// ScanErrorMsg signals one event search failed.
	ScanErrorMsg struct {
		Event string
		Err   error
	}

	// DoneMsg signals all searches completed.
	DoneMsg struct{}
)

// eventState tracks one search's progress on screen.
type eventState struct {
	name   string
	steps  int
	trace  []search.Step // Last traceRows steps
	result *search.Result
	err    error
}

// Model is the root Bubble Tea model.
type Model struct {
	site geo.Site
	date string
	zone *time.Location

	width  int
	height int
	ready  bool
	done   bool
	tick   int

	order  []string
	events map[string]*eventState
}

// New creates the scan view model. Events arrive via StepMsg/ResultMsg in
// the order the searches run.
func New(site geo.Site, date string, zone *time.Location) Model {
	return Model{
		site:   site,
		date:   date,
		zone:   zone,
		events: make(map[string]*eventState),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		m.tick++
		if !m.done {
			return m, tickCmd()
		}

	case StepMsg:
		st := m.stateFor(msg.Event)
		st.steps++
		st.trace = append(st.trace, msg.Step)
		if len(st.trace) > traceRows {
			st.trace = st.trace[len(st.trace)-traceRows:]
		}

	case ResultMsg:
		st := m.stateFor(msg.Event)
		res := msg.Result
		st.result = &res

	case ScanErrorMsg:
		st := m.stateFor(msg.Event)
		st.err = msg.Err

	case DoneMsg:
		m.done = true
	}

	return m, nil
}

func (m *Model) stateFor(name string) *eventState {
	if st, ok := m.events[name]; ok {
		return st
	}
	st := &eventState{name: name}
	m.events[name] = st
	m.order = append(m.order, name)
	return st
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())

	for _, name := range m.order {
		b.WriteString(m.renderEvent(m.events[name]))
		b.WriteString("\n")
	}
	if len(m.order) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		b.WriteString(dim.Render("  Waiting for the first scan step..."))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#D946EF")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title.Render("  ▲ ridgeline"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · terrain-aware sunrise & sunset", version.Version)))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  %s @ %.4f, %.4f (%.0fm)",
		m.date, m.site.Lat, m.site.Lon, m.site.ElevationM)))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) renderEvent(st *eventState) string {
	head := lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	good := lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	var b strings.Builder
	b.WriteString(head.Render("  " + st.name))

	switch {
	case st.err != nil:
		b.WriteString("  " + bad.Render("ERROR: "+st.err.Error()) + "\n")
		return b.String()
	case st.result != nil:
		res := st.result
		delta := res.Time.Sub(res.Standard).Minutes()
		b.WriteString(good.Render(fmt.Sprintf("  %s", res.Time.In(m.zone).Format("15:04:05"))))
		b.WriteString(dim.Render(fmt.Sprintf("  (standard %s, %+.0f min, %s)",
			res.Standard.In(m.zone).Format("15:04:05"), delta, res.Provenance)))
		b.WriteString("\n")
	default:
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		b.WriteString(dim.Render(fmt.Sprintf("  %s scanning, %d steps", spinner, st.steps)))
		b.WriteString("\n")
	}

	for _, s := range st.trace {
		b.WriteString(dim.Render(fmt.Sprintf("    %s  az %6.2f°  ", s.Time.In(m.zone).Format("15:04"), s.AzimuthDeg)))
		b.WriteString(renderAltitudeBar(s.AltitudeDeg, s.HorizonDeg, 24))
		b.WriteString(dim.Render(fmt.Sprintf("  alt %+5.2f° / hz %+5.2f°", s.AltitudeDeg, s.HorizonDeg)))
		b.WriteString("\n")
	}

	return b.String()
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderAltitudeBar draws the sun's altitude against the terrain horizon on
// a fixed ±10° scale. The ridge marker sits at the horizon angle; the fill
// reaches the sun's altitude.
func renderAltitudeBar(altDeg, horizonDeg float64, width int) string {
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899"))
	ridgeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	pos := func(deg float64) int {
		p := int((deg + 10) / 20 * float64(width))
		if p < 0 {
			p = 0
		}
		if p >= width {
			p = width - 1
		}
		return p
	}

	sun := pos(altDeg)
	ridge := pos(horizonDeg)

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == sun:
			b.WriteString(sunStyle.Render("●"))
		case i == ridge:
			b.WriteString(ridgeStyle.Render("▲"))
		case i < sun:
			b.WriteString(dim.Render("·"))
		default:
			b.WriteString(" ")
		}
	}
	b.WriteString("]")
	return b.String()
}

func (m Model) renderFooter() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	if m.done {
		return dim.Render("\n  done | q: quit") + "\n"
	}
	return dim.Render("\n  q: quit") + "\n"
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
