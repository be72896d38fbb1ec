package viz

import "math"

// Projection maps world coordinates onto a braille canvas with one uniform
// scale, so boxes stay square. Braille dots are roughly square on screen.
type Projection struct {
	Width, Height float64 // world
	Cols, Rows    int     // canvas cells
	scale         float64 // dots per world unit
}

// NewProjection fits a world of w×h into rows canvas rows and derives the
// column count from the world's aspect ratio.
func NewProjection(w, h float64, rows int) Projection {
	if rows < 1 {
		rows = 1
	}
	scale := float64(rows*4) / h
	return Projection{
		Width:  w,
		Height: h,
		Cols:   int(math.Ceil(w * scale / 2)),
		Rows:   rows,
		scale:  scale,
	}
}

// ToCanvas returns the dot nearest to (x, y), clamped to the canvas.
func (p Projection) ToCanvas(x, y float64) (int, int) {
	return clampDot(x*p.scale, p.Cols*2), clampDot(y*p.scale, p.Rows*4)
}

// ToWorld returns the world position at the centre of a canvas cell.
func (p Projection) ToWorld(col, row int) (float64, float64) {
	return (float64(col*2) + 1) / p.scale, (float64(row*4) + 2) / p.scale
}

// CellSize is the world width of one canvas cell.
func (p Projection) CellSize() float64 {
	return 2 / p.scale
}

func clampDot(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
