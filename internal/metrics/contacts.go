package metrics

import "github.com/san-kum/softbody/internal/dynamo"

// FloorContacts counts (particle, frame) pairs resting on the floor.
type FloorContacts struct {
	name     string
	contacts int
}

func NewFloorContacts() *FloorContacts {
	return &FloorContacts{name: "floor_contacts"}
}

func (f *FloorContacts) Name() string {
	return f.name
}

func (f *FloorContacts) Observe(s *dynamo.Solver) {
	floor := s.Params().Height
	for _, p := range s.Positions() {
		if p.Y >= floor {
			f.contacts++
		}
	}
}

func (f *FloorContacts) Value() float64 {
	return float64(f.contacts)
}

func (f *FloorContacts) Reset() {
	f.contacts = 0
}
