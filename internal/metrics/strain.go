package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// MeanStrain returns the mean relative length error over all constraints.
// Zero-length constraints contribute their absolute error.
func MeanStrain(s *dynamo.Solver) float64 {
	n := s.NumConstraints()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		e := math.Abs(s.Stretch(i))
		if l := s.Constraint(i).Length; l > 0 {
			e /= l
		}
		sum += e
	}
	return sum / float64(n)
}

// Strain averages MeanStrain over all observed frames.
type Strain struct {
	name    string
	sum     float64
	samples int
}

func NewStrain() *Strain {
	return &Strain{name: "strain"}
}

func (m *Strain) Name() string { return m.name }

func (m *Strain) Observe(s *dynamo.Solver) {
	m.sum += MeanStrain(s)
	m.samples++
}

func (m *Strain) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Strain) Reset() {
	m.sum = 0
	m.samples = 0
}
