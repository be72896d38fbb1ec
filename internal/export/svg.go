package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/viz"
)

const (
	background = "#0a0a0a"
	bodyColor  = "#00ff00"
)

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// FrameToSVG draws one frame in world coordinates: constraints as lines and
// particles as circles.
func FrameToSVG(points []dynamo.Point, segments []dynamo.Segment, width, height float64) string {
	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="2">
`, bodyColor))
	for _, s := range segments {
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>
`, s.A.X, s.A.Y, s.B.X, s.B.Y))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, bodyColor))
	for _, p := range points {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="4"/>
`, p.X, p.Y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SegmentsFor pairs frame positions with the links of a solver.
func SegmentsFor(s *dynamo.Solver, points []dynamo.Point) []dynamo.Segment {
	out := make([]dynamo.Segment, 0, s.NumConstraints())
	for i := 0; i < s.NumConstraints(); i++ {
		c := s.Constraint(i)
		if int(c.A) >= len(points) || int(c.B) >= len(points) {
			continue
		}
		out = append(out, dynamo.Segment{A: points[c.A], B: points[c.B]})
	}
	return out
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, bodyColor))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a path through points, fitted into width×height with
// a 10% margin. Screen orientation is kept: y grows downwards.
func TrajectoryToSVG(points []dynamo.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
