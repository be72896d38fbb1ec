package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
)

const (
	canvasRows      = 24
	historyCapacity = 600
	minGrabRadius   = 20.0

	// canvas offset inside the rendered view, from canvasStyle padding
	padTop, padLeft = 1, 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const helpText = `Space  Pause/Resume simulation
S      Single step while paused
R      Reset to spawn positions
P      Pin/unpin particle at last click
Q      Quit
[      Rewind (time travel)
]      Forward (time travel)
G      Toggle GIF recording
T      Cycle themes
Left   Grab and drag a particle
Right  Reset
?      Toggle this help`

type TickMsg time.Time

type record struct {
	snap   dynamo.Snapshot
	energy float64
	strain float64
}

// Model is the live view of one solver. Every tick advances the solver by
// exactly one step unless paused or replaying.
type Model struct {
	solver        *dynamo.Solver
	name          string
	fps           int
	proj          Projection
	canvas        *Canvas
	running       bool
	energyHistory []float64
	strainHistory []float64
	history       []record
	playHead      int
	grabbed       dynamo.Handle
	grabbing      bool
	dragX, dragY  float64 // last cursor position in world units
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	message       string
}

func NewModel(s *dynamo.Solver, name string, fps int) Model {
	if fps < 1 {
		fps = 60
	}
	params := s.Params()
	proj := NewProjection(params.Width, params.Height, canvasRows)
	return Model{
		solver:        s,
		name:          name,
		fps:           fps,
		proj:          proj,
		canvas:        NewCanvas(proj.Cols, proj.Rows),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		strainHistory: make([]float64, 0, historyCapacity),
		history:       make([]record, 0, historyCapacity),
		playHead:      -1,
		grabbed:       -1,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "p":
			m.togglePin()
		case "s":
			if !m.running && m.playHead == -1 {
				m.step()
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the solver once, holding a grabbed particle at the cursor.
func (m *Model) step() {
	if m.grabbing {
		_ = m.solver.MoveTo(m.grabbed, m.dragX, m.dragY)
	}
	m.solver.Step()

	r := record{
		snap:   m.solver.Snapshot(),
		energy: metrics.TotalEnergy(m.solver),
		strain: metrics.MeanStrain(m.solver),
	}
	m.energyHistory = appendCapped(m.energyHistory, r.energy)
	m.strainHistory = appendCapped(m.strainHistory, r.strain)
	m.history = append(m.history, r)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset returns the body to its spawn configuration and drops all history.
func (m *Model) reset() {
	m.solver.ResetToRest()
	m.energyHistory = m.energyHistory[:0]
	m.strainHistory = m.strainHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.grabbing = false
	m.grabbed = -1
}

func (m Model) grabRadius() float64 {
	return math.Max(minGrabRadius, 2*m.proj.CellSize())
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.playHead != -1 || m.showHelp {
		return
	}
	x, y := m.proj.ToWorld(msg.X-padLeft, msg.Y-padTop)
	m.dragX, m.dragY = x, y

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if h, ok := m.solver.Nearest(x, y, m.grabRadius()); ok {
			m.grabbed, m.grabbing = h, true
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		m.reset()
	case msg.Action == tea.MouseActionMotion && m.grabbing:
		_ = m.solver.MoveTo(m.grabbed, x, y)
	case msg.Action == tea.MouseActionRelease:
		m.grabbing = false
		m.grabbed = -1
	}
}

// togglePin pins or frees the particle nearest the last cursor position.
func (m *Model) togglePin() {
	h, ok := m.solver.Nearest(m.dragX, m.dragY, m.grabRadius())
	if !ok {
		return
	}
	if m.solver.Particle(h).Pinned {
		_ = m.solver.Unpin(h)
	} else {
		_ = m.solver.Pin(h)
	}
}

// positions returns what is on screen: the live solver or the replayed frame.
func (m Model) positions() ([]dynamo.Point, float64, float64, uint64) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		r := m.history[m.playHead]
		pts := make([]dynamo.Point, len(r.snap.Particles))
		for i := range r.snap.Particles {
			pts[i] = r.snap.Particles[i].Position()
		}
		return pts, r.energy, r.strain, r.snap.Frame
	}
	return m.solver.Positions(), metrics.TotalEnergy(m.solver), metrics.MeanStrain(m.solver), m.solver.Frame()
}

func (m *Model) draw() {
	pts, _, _, _ := m.positions()
	m.render(pts)
}

func (m *Model) render(pts []dynamo.Point) {
	segs := make([]dynamo.Segment, m.solver.NumConstraints())
	for i := range segs {
		link := m.solver.Constraint(i)
		segs[i] = dynamo.Segment{A: pts[link.A], B: pts[link.B]}
	}
	Render(m.canvas, m.proj, pts, segs)
}

// Render clears c and draws the world border, every segment and every point.
func Render(c *Canvas, proj Projection, pts []dynamo.Point, segs []dynamo.Segment) {
	c.Clear()

	cw, ch := c.Width*2, c.Height*4
	c.DrawLine(0, ch-1, cw-1, ch-1)
	c.DrawLine(0, 0, 0, ch-1)
	c.DrawLine(cw-1, 0, cw-1, ch-1)

	for _, s := range segs {
		x0, y0 := proj.ToCanvas(s.A.X, s.A.Y)
		x1, y1 := proj.ToCanvas(s.B.X, s.B.Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range pts {
		c.DrawDot(proj.ToCanvas(p.X, p.Y))
	}
}

func (m Model) status() string {
	switch {
	case m.playHead != -1 && len(m.history) > 0:
		back := len(m.history) - 1 - m.playHead
		label := "REPLAY"
		if !m.running {
			label = "REPLAY PAUSED"
		}
		return StatusPaused.Render(fmt.Sprintf("%s (-%d)", label, back)) + " " + ProgressBar(float64(m.playHead+1)/float64(len(m.history)), 10)
	case m.recording:
		return StatusRecording.Render("● REC")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	pts, energy, strain, frame := m.positions()
	m.render(pts)

	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(theme.Secondary).Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(theme.Accent).Render(chart) + "\n")
	}
	s.WriteString(MetricLabel.Render("strain ") + SparklineChart(m.strainHistory, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Width(12).Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", frame))
	row("Time", fmt.Sprintf("%.2fs", float64(frame)/float64(m.fps)))
	row("Energy", fmt.Sprintf("%.2f", energy))
	row("Strain", fmt.Sprintf("%.4f", strain))
	row("Particles", fmt.Sprintf("%d", m.solver.Len()))
	row("Links", fmt.Sprintf("%d", m.solver.NumConstraints()))
	if m.grabbing {
		row("Grab", fmt.Sprintf("#%d", m.grabbed))
	}

	params := m.solver.Params()
	s.WriteString("\n" + Subtle.Render("WORLD") + "\n")
	row("gravity", fmt.Sprintf("%.3f", params.Gravity))
	row("damping", fmt.Sprintf("%.3f", params.Damping))
	row("restitution", fmt.Sprintf("%.3f", params.Restitution))
	row("iterations", fmt.Sprintf("%d", params.Iterations))

	if m.message != "" {
		s.WriteString("\n" + KeyHint.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause S:Step R:Reset Q:Quit\nT:Theme  G:Record P:Pin ?:Help\n[ ]:Time-Travel  mouse:Drag"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return GlassPanel.Render(HeaderStyle.Render("KEYBOARD AND MOUSE")+"\n\n"+helpText) + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		m.message = ""
		return
	}
	if err := m.saveGIF("softbody.gif"); err != nil {
		m.message = "record: " + err.Error()
	} else {
		m.message = fmt.Sprintf("saved softbody.gif (%d frames)", len(m.frames))
	}
	m.recording = false
	m.frames = nil
}

// captureFrame rasterises the canvas, drawing each braille dot as a block.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < m.canvas.Height*4; y++ {
		for x := 0; x < m.canvas.Width*2; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	delay := 100 / m.fps
	if delay < 1 {
		delay = 1
	}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the live view in the terminal's alternate screen with mouse
// tracking enabled.
func Run(s *dynamo.Solver, name string, fps int) error {
	_, err := tea.NewProgram(NewModel(s, name, fps), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
