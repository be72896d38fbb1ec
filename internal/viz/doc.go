// Package viz renders a running soft body in the terminal.
//
// The live view is a Bubble Tea program drawing onto a braille [Canvas]
// through a [Projection] that scales the world rectangle uniformly:
//
//   - [Model]: live view of one [dynamo.Solver], one Step per tick
//   - [NewInteractiveApp]: preset menu that launches a live view
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Reset to spawn positions
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
//
// # Mouse
//
// Left press grabs the nearest particle and drags it with the cursor; on
// release it keeps the velocity of the drag. Right press resets.
package viz
