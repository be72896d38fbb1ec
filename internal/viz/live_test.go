package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/softbody/internal/dynamo"
)

func newBox(t *testing.T) *dynamo.Solver {
	t.Helper()
	s, err := dynamo.NewFromTopology(dynamo.DefaultParams(), dynamo.Topology{
		Particles: []dynamo.ParticleSpec{{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200}},
		Constraints: []dynamo.ConstraintSpec{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0}, {A: 0, B: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestTickStepsOnce(t *testing.T) {
	s := newBox(t)
	m := send(NewModel(s, "box", 60), TickMsg{}, TickMsg{}, TickMsg{})

	if s.Frame() != 3 {
		t.Errorf("expected 3 frames, got %d", s.Frame())
	}
	if len(m.history) != 3 || len(m.energyHistory) != 3 {
		t.Errorf("expected 3 recorded frames, got %d", len(m.history))
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	s := newBox(t)
	m := send(NewModel(s, "box", 60), key(" "), TickMsg{}, TickMsg{})
	if s.Frame() != 0 {
		t.Fatalf("paused view advanced to frame %d", s.Frame())
	}

	send(m, key("s"))
	if s.Frame() != 1 {
		t.Errorf("single step should advance one frame, got %d", s.Frame())
	}
}

func TestResetKey(t *testing.T) {
	s := newBox(t)
	m := NewModel(s, "box", 60)
	for i := 0; i < 30; i++ {
		m = send(m, TickMsg{})
	}

	m = send(m, key("r"))

	rest := s.RestPositions()
	for i, p := range s.Positions() {
		if p != rest[i] {
			t.Errorf("particle %d at %+v, want %+v", i, p, rest[i])
		}
	}
	if len(m.history) != 0 || m.playHead != -1 {
		t.Error("reset should drop history")
	}
}

func TestRewind(t *testing.T) {
	s := newBox(t)
	m := NewModel(s, "box", 60)
	for i := 0; i < 5; i++ {
		m = send(m, TickMsg{})
	}

	m = send(m, key("["))
	if m.playHead != 3 || m.running {
		t.Fatalf("expected paused replay at 3, got %d (running=%v)", m.playHead, m.running)
	}

	_, _, _, frame := m.positions()
	if frame != 4 {
		t.Errorf("expected replayed frame 4, got %d", frame)
	}
	if m.View() == "" {
		t.Error("empty view during replay")
	}

	m = send(m, key("]"), key("]"))
	if m.playHead != -1 {
		t.Errorf("forwarding past the end should return live, got %d", m.playHead)
	}
	if s.Frame() != 5 {
		t.Errorf("replay must not step the solver, frame %d", s.Frame())
	}
}

func TestMouseGrabAndDrag(t *testing.T) {
	s := newBox(t)
	m := NewModel(s, "box", 60)

	// particle 0 at (300, 100) lands in cell (24, 4)
	m = send(m, tea.MouseMsg{X: 24 + padLeft, Y: 4 + padTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.grabbing || m.grabbed != 0 {
		t.Fatalf("expected particle 0 grabbed, got %d (grabbing=%v)", m.grabbed, m.grabbing)
	}

	m = send(m, tea.MouseMsg{X: 30 + padLeft, Y: 4 + padTop, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if got := s.Particle(0); got.X != 381.25 || got.Y != 112.5 {
		t.Errorf("dragged particle at (%g, %g)", got.X, got.Y)
	}

	m = send(m, tea.MouseMsg{X: 30 + padLeft, Y: 4 + padTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.grabbing {
		t.Error("release should let go")
	}
}

func TestMouseMissesEmptySpace(t *testing.T) {
	m := send(NewModel(newBox(t), "box", 60),
		tea.MouseMsg{X: 2 + padLeft, Y: 20 + padTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.grabbing {
		t.Error("press far from the body should not grab")
	}
}

func TestRightClickResets(t *testing.T) {
	s := newBox(t)
	m := NewModel(s, "box", 60)
	for i := 0; i < 10; i++ {
		m = send(m, TickMsg{})
	}
	send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})

	if s.Particle(0).Y != 100 {
		t.Errorf("right click should reset, y=%f", s.Particle(0).Y)
	}
}

func TestRenderDrawsBody(t *testing.T) {
	s := newBox(t)
	m := NewModel(s, "box", 60)
	m.render(s.Positions())

	x, y := m.proj.ToCanvas(300, 100)
	if !m.canvas.IsSet(x, y) {
		t.Error("corner not drawn")
	}
	// midpoint of the top edge
	x, y = m.proj.ToCanvas(350, 100)
	if !m.canvas.IsSet(x, y) {
		t.Error("edge not drawn")
	}
}

func TestPinToggle(t *testing.T) {
	s := newBox(t)
	m := send(NewModel(s, "box", 60),
		tea.MouseMsg{X: 24 + padLeft, Y: 4 + padTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 24 + padLeft, Y: 4 + padTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
		key("p"),
	)
	if !s.Particle(0).Pinned {
		t.Fatal("p should pin the particle at the last click")
	}

	m = send(m, TickMsg{}, TickMsg{})
	if got := s.Particle(0); got.X != 300 || got.Y != 100 {
		t.Errorf("pinned particle moved to (%g, %g)", got.X, got.Y)
	}

	send(m, key("p"))
	if s.Particle(0).Pinned {
		t.Error("second p should unpin")
	}
}
