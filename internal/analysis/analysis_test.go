package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/softbody/internal/dynamo"
)

func TestCenterOfMass(t *testing.T) {
	box := []dynamo.Point{{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200}}
	c := CenterOfMass(box)
	if c.X != 350 || c.Y != 150 {
		t.Errorf("expected (350, 150), got %+v", c)
	}
	if (CenterOfMass(nil) != dynamo.Point{}) {
		t.Error("empty input should give the zero point")
	}
}

func TestHeightSeries(t *testing.T) {
	frames := [][]dynamo.Point{
		{{X: 0, Y: 100}, {X: 0, Y: 200}},
		{{X: 0, Y: 590}, {X: 0, Y: 600}},
	}
	h := HeightSeries(frames, 600)
	if h[0] != 400 || h[1] != 0 {
		t.Errorf("unexpected heights %v", h)
	}
}

func TestBounceCount(t *testing.T) {
	series := []float64{10, 5, 0, 3, 8, 0, 0, 4}
	if got := BounceCount(series, 0.5); got != 2 {
		t.Errorf("expected 2 bounces, got %d", got)
	}
	if got := BounceCount([]float64{0, 0, 0}, 0.5); got != 0 {
		t.Errorf("starting on the floor is not a bounce, got %d", got)
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for 128 padded samples, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestDominantFrequency(t *testing.T) {
	const rate = 64.0
	series := make([]float64, 64)
	for i := range series {
		series[i] = 10 + math.Sin(2*math.Pi*4*float64(i)/rate)
	}

	if hz := DominantFrequency(series, rate); math.Abs(hz-4) > 1e-9 {
		t.Errorf("expected 4 Hz, got %f", hz)
	}
	if hz := DominantFrequency([]float64{1}, rate); hz != 0 {
		t.Errorf("expected 0 for a single sample, got %f", hz)
	}
}

func TestSummarizeFallingBox(t *testing.T) {
	s, err := dynamo.NewFromTopology(dynamo.DefaultParams(), dynamo.Topology{
		Particles: []dynamo.ParticleSpec{{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200}},
		Constraints: []dynamo.ConstraintSpec{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0}, {A: 0, B: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	frames := [][]dynamo.Point{s.Positions()}
	times := []float64{0}
	for i := 1; i <= 300; i++ {
		s.Step()
		frames = append(frames, s.Positions())
		times = append(times, float64(i)/60)
	}

	r := Summarize(frames, times, 600, 60)
	if r.Frames != 301 {
		t.Errorf("expected 301 frames, got %d", r.Frames)
	}
	if r.MaxHeight != 400 {
		t.Errorf("expected max height 400, got %f", r.MaxHeight)
	}
	if r.MinHeight > FloorBand {
		t.Errorf("box should reach the floor, min height %f", r.MinHeight)
	}
	if r.Bounces < 1 {
		t.Error("expected at least one bounce")
	}
	if r.EndCOM.Y <= r.StartCOM.Y {
		t.Errorf("box should fall: start %+v end %+v", r.StartCOM, r.EndCOM)
	}
}
