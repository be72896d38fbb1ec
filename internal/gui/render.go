package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const particleRadius = 4

// stickColor brightens a stick as it strays from its rest length.
func stickColor(stretch, length float64) rl.Color {
	strain := 0.0
	if length > 0 {
		strain = math.Abs(stretch) / length
	}
	val := uint8(math.Min(120+strain*2000, 255))
	return rl.NewColor(val, val, val, 255)
}

func (a *App) drawSim() {
	rl.DrawRectangleLines(0, 0, a.width, a.height, ColGrid)

	for i, seg := range a.Solver.Segments() {
		from := rl.NewVector2(float32(seg.A.X), float32(seg.A.Y))
		to := rl.NewVector2(float32(seg.B.X), float32(seg.B.Y))
		rl.DrawLineEx(from, to, 2, stickColor(a.Solver.Stretch(i), a.Solver.Constraint(i).Length))
	}

	for i, p := range a.Solver.Particles() {
		col := ColAccent
		if p.Pinned {
			col = ColPinned
		}
		if a.Grabbing && int(a.Grabbed) == i {
			col = ColSelect
		}
		rl.DrawCircleV(rl.NewVector2(float32(p.X), float32(p.Y)), particleRadius, col)
	}

	if a.Grabbing {
		mouse := rl.GetMousePosition()
		rl.DrawCircleLines(int32(mouse.X), int32(mouse.Y), grabRadius, rl.NewColor(255, 255, 255, 60))
	}
}

// DrawTelemetry plots recent total energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 20, 70
	width, height := 200, 40

	// Normalize Data
	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(maxTelemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.1f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
