package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
)

var shapeInfo = map[string]string{
	"box":     "four corners, optional braces",
	"hexagon": "irregular hexagon demo",
	"polygon": "braced regular polygon",
	"chain":   "rope hanging from a pin",
	"cloth":   "grid pinned at the top",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var worldParams = []string{"gravity", "damping", "restitution", "iterations"}

// entry is one "shape/preset" line of the menu.
type entry struct {
	shape, preset string
}

func (e entry) String() string { return e.shape + "/" + e.preset }

type menu struct {
	state, cursor int
	entries       []entry
	registry      *experiment.Registry
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

func NewInteractiveApp(registry *experiment.Registry) *menu {
	m := &menu{state: stateMenu, registry: registry}
	for _, shape := range config.ListShapes() {
		for _, name := range config.ListPresets(shape) {
			m.entries = append(m.entries, entry{shape: shape, preset: name})
		}
	}
	return m
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		e := m.entries[m.cursor]
		m.cfg = config.GetPreset(e.shape, e.preset)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m menu) configKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	name := worldParams[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.setParam(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(worldParams)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.param(name), 'g', -1, 64)
	case "left", "h":
		m.nudge(name, -1)
	case "right", "l":
		m.nudge(name, 1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *menu) param(name string) float64 {
	w := m.cfg.World
	switch name {
	case "gravity":
		return w.Gravity
	case "damping":
		return w.Damping
	case "restitution":
		return w.Restitution
	case "iterations":
		return float64(w.Iterations)
	}
	return 0
}

func (m *menu) setParam(name string, v float64) {
	switch name {
	case "gravity":
		m.cfg.World.Gravity = v
	case "damping":
		m.cfg.World.Damping = v
	case "restitution":
		m.cfg.World.Restitution = v
	case "iterations":
		m.cfg.World.Iterations = int(v)
	}
}

func (m *menu) nudge(name string, dir float64) {
	step := 0.01
	switch name {
	case "gravity":
		step = 0.1
	case "iterations":
		step = 1
	}
	m.setParam(name, m.param(name)+dir*step)
}

func (m menu) start() (menu, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	topo, err := m.registry.GetBody(m.cfg.Body.Shape, m.cfg.Body)
	if err != nil {
		m.err = err
		return m, nil
	}
	solver, err := dynamo.NewFromTopology(m.cfg.Params(), topo)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = NewModel(solver, m.entries[m.cursor].String(), m.cfg.Run.FPS)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + hintStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientTitle.Render("SOFTBODY") + "\n    " + Subtle.Render("verlet soft-body playground") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		desc := shapeInfo[e.shape]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", keyStyle.Render("▸"), NeonGlow.Render(fmt.Sprintf("%-16s", e)), KeyHint.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", hintStyle.Render(fmt.Sprintf("%-16s", e)), dimStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m menu) viewConfig() string {
	var b strings.Builder
	e := m.entries[m.cursor]
	b.WriteString("\n\n    " + GradientTitle.Render(strings.ToUpper(e.String())) + "\n    " + Subtle.Render(shapeInfo[e.shape]) + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range worldParams {
		valStr := fmt.Sprintf("%8.3f", m.param(name))
		if name == "iterations" {
			valStr = fmt.Sprintf("%8d", m.cfg.World.Iterations)
		}
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", keyStyle.Render("▸"), NeonGlow.Render(fmt.Sprintf("%-12s", name)), MetricValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", hintStyle.Render(fmt.Sprintf("%-12s", name)), dimStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu and runs the chosen body live.
func RunInteractive(registry *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(registry), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
