package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// TotalEnergy is the kinetic plus potential energy of every particle with unit
// mass. Velocity is the undamped displacement since the previous step, and
// potential energy is measured upwards from the floor.
func TotalEnergy(s *dynamo.Solver) float64 {
	params := s.Params()
	var total float64
	for _, p := range s.Particles() {
		vx, vy := p.Velocity(1)
		total += 0.5*(vx*vx+vy*vy) + params.Gravity*(params.Height-p.Y)
	}
	return total
}

type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *dynamo.Solver) {
	e.totalEnergy += TotalEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation from the first observed energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *dynamo.Solver) {
	energy := TotalEnergy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
