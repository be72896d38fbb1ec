package analysis

import "github.com/san-kum/softbody/internal/dynamo"

// CenterOfMass returns the mean position of points, treating every particle as
// unit mass.
func CenterOfMass(points []dynamo.Point) dynamo.Point {
	if len(points) == 0 {
		return dynamo.Point{}
	}
	var c dynamo.Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	return dynamo.Point{X: c.X / n, Y: c.Y / n}
}

func CenterOfMassSeries(frames [][]dynamo.Point) []dynamo.Point {
	out := make([]dynamo.Point, len(frames))
	for i, f := range frames {
		out[i] = CenterOfMass(f)
	}
	return out
}

// HeightSeries is the height of the lowest particle above the floor, per frame.
func HeightSeries(frames [][]dynamo.Point, floor float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		lowest := 0.0
		for j, p := range f {
			if j == 0 || p.Y > lowest {
				lowest = p.Y
			}
		}
		out[i] = floor - lowest
	}
	return out
}

// BounceCount counts how many times series enters the band [.., band] from
// above. Consecutive samples inside the band count once.
func BounceCount(series []float64, band float64) int {
	count := 0
	inside := false
	for i, v := range series {
		touching := v <= band
		if touching && !inside && i > 0 {
			count++
		}
		inside = touching
	}
	return count
}
