package physics

import (
	"math"
	"testing"

	"github.com/san-kum/softbody/internal/dynamo"
)

func TestBoxBraces(t *testing.T) {
	tests := []struct {
		brace       Brace
		constraints int
	}{
		{BraceNone, 4},
		{BraceSingle, 5},
		{BraceCross, 6},
	}

	for _, tt := range tests {
		t.Run(tt.brace.String(), func(t *testing.T) {
			topo := Box(300, 100, 100, 100, tt.brace)
			if len(topo.Particles) != 4 {
				t.Errorf("expected 4 particles, got %d", len(topo.Particles))
			}
			if len(topo.Constraints) != tt.constraints {
				t.Errorf("expected %d constraints, got %d", tt.constraints, len(topo.Constraints))
			}
		})
	}
}

func TestBoxCorners(t *testing.T) {
	topo := Box(300, 100, 100, 100, BraceSingle)
	want := []dynamo.ParticleSpec{{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200}}
	for i, w := range want {
		if topo.Particles[i] != w {
			t.Errorf("corner %d: got %+v, want %+v", i, topo.Particles[i], w)
		}
	}
	if c := topo.Constraints[4]; c.A != 0 || c.B != 2 {
		t.Errorf("brace should link 0-2, got %d-%d", c.A, c.B)
	}
}

func TestParseBrace(t *testing.T) {
	for in, want := range map[string]Brace{
		"":       BraceSingle,
		"floppy": BraceNone,
		"single": BraceSingle,
		"rigid":  BraceCross,
		"cross":  BraceCross,
	} {
		got, err := ParseBrace(in)
		if err != nil {
			t.Fatalf("ParseBrace(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseBrace(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseBrace("diagonal"); err == nil {
		t.Error("expected error for unknown brace")
	}
}

func TestPolygon(t *testing.T) {
	topo := Polygon(400, 300, 50, 6, true)
	if len(topo.Particles) != 6 {
		t.Fatalf("expected 6 particles, got %d", len(topo.Particles))
	}
	if len(topo.Constraints) != 9 {
		t.Errorf("expected 6 edges + 3 braces, got %d", len(topo.Constraints))
	}

	top := topo.Particles[0]
	if math.Abs(top.X-400) > 1e-9 || math.Abs(top.Y-250) > 1e-9 {
		t.Errorf("first vertex should sit above centre, got %+v", top)
	}
	for i, p := range topo.Particles {
		if r := math.Hypot(p.X-400, p.Y-300); math.Abs(r-50) > 1e-9 {
			t.Errorf("vertex %d at radius %f", i, r)
		}
	}

	if got := Polygon(0, 0, 10, 1, false); len(got.Particles) != 3 {
		t.Errorf("sides below 3 should clamp to a triangle, got %d", len(got.Particles))
	}
}

func TestHexagon(t *testing.T) {
	topo := Hexagon()
	st := Describe(topo)
	if st.Particles != 6 || st.Constraints != 9 || st.Pinned != 0 {
		t.Errorf("unexpected stats %+v", st)
	}

	braces := topo.Constraints[6:]
	want := [][2]int{{1, 3}, {1, 5}, {3, 5}}
	for i, w := range want {
		if braces[i].A != w[0] || braces[i].B != w[1] {
			t.Errorf("brace %d: got %d-%d, want %d-%d", i, braces[i].A, braces[i].B, w[0], w[1])
		}
	}
}

func TestChainHangsFromPin(t *testing.T) {
	topo := Chain(200, 100, 10, 20, true)
	if len(topo.Particles) != 11 || len(topo.Constraints) != 10 {
		t.Fatalf("expected 11 particles and 10 links, got %d and %d", len(topo.Particles), len(topo.Constraints))
	}

	s, err := dynamo.NewFromTopology(dynamo.DefaultParams(), topo)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		s.Step()
	}

	head := s.Particle(0)
	if head.X != 200 || head.Y != 100 {
		t.Errorf("pinned head moved to (%f, %f)", head.X, head.Y)
	}
	tail := s.Particle(dynamo.Handle(10))
	if tail.Y <= 100 {
		t.Errorf("tail should swing below the head, y=%f", tail.Y)
	}
}

func TestCloth(t *testing.T) {
	topo := Cloth(100, 50, 3, 2, 10, true)
	st := Describe(topo)
	if st.Particles != 6 {
		t.Errorf("expected 6 particles, got %d", st.Particles)
	}
	// 2 rows × 2 horizontal + 3 columns × 1 vertical
	if st.Constraints != 7 {
		t.Errorf("expected 7 constraints, got %d", st.Constraints)
	}
	if st.Pinned != 2 {
		t.Errorf("expected 2 pinned corners, got %d", st.Pinned)
	}
	if math.Abs(st.RestLength-70) > 1e-9 {
		t.Errorf("expected total rest length 70, got %f", st.RestLength)
	}
	if !topo.Particles[0].Pinned || !topo.Particles[2].Pinned {
		t.Error("top corners should be pinned")
	}
}

func TestDescribeExplicitLength(t *testing.T) {
	topo := dynamo.Topology{
		Particles:   []dynamo.ParticleSpec{{X: 0, Y: 0}, {X: 3, Y: 4}},
		Constraints: []dynamo.ConstraintSpec{{A: 0, B: 1}, {A: 0, B: 1, Length: 2}},
	}
	if got := Describe(topo).RestLength; math.Abs(got-7) > 1e-12 {
		t.Errorf("RestLength = %f, want 7", got)
	}
}

func TestTranslate(t *testing.T) {
	orig := Box(0, 0, 10, 10, BraceNone)
	moved := Translate(orig, 5, -5)
	if moved.Particles[2].X != 15 || moved.Particles[2].Y != 5 {
		t.Errorf("unexpected corner %+v", moved.Particles[2])
	}
	if orig.Particles[2].X != 10 {
		t.Error("Translate must not modify its input")
	}
	if Describe(moved).RestLength != Describe(orig).RestLength {
		t.Error("translation should preserve rest lengths")
	}
}
