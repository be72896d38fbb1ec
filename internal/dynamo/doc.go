// Package dynamo provides the position-based soft-body solver.
//
// A body is a set of point masses joined by fixed-length links:
//
//   - [Particle]: point mass with current and previous position
//   - [Constraint]: fixed-length link between two particles, addressed by [Handle]
//   - [Solver]: owns the particle arena and constraint list, advances one frame per [Solver.Step]
//   - [Simulator]: headless driver that runs a solver for many frames and collects metrics
//
// Velocity is never stored. Each step infers it from the difference between the
// current and previous position, damps it, adds gravity to the vertical axis and
// clamps the result to the world rectangle. Links are then relaxed a fixed
// number of times in insertion order.
//
// # Example
//
//	s, _ := dynamo.New(dynamo.DefaultParams())
//	a := s.AddParticle(300, 100)
//	b := s.AddParticle(400, 100)
//	s.AddConstraint(a, b)
//	for i := 0; i < 60; i++ {
//	    s.Step()
//	}
//	segments := s.Segments()
//
// # Thread Safety
//
// Solver instances are NOT thread-safe. Hosts must serialize Step, reads and
// resets; a reset must never overlap a step.
package dynamo
