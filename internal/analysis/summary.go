package analysis

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Report summarises a recorded run.
type Report struct {
	Frames       int
	Duration     float64
	StartCOM     dynamo.Point
	EndCOM       dynamo.Point
	MinHeight    float64
	MaxHeight    float64
	Bounces      int
	DominantHz   float64
	Displacement float64 // distance travelled by the centre of mass
}

// FloorBand is how close to the floor a particle must be to count as touching.
const FloorBand = 0.5

// Summarize reduces frames recorded at times to a Report. rate is the number
// of recorded frames per second.
func Summarize(frames [][]dynamo.Point, times []float64, floor, rate float64) Report {
	r := Report{Frames: len(frames)}
	if len(frames) == 0 {
		return r
	}
	if len(times) > 0 {
		r.Duration = times[len(times)-1] - times[0]
	}

	com := CenterOfMassSeries(frames)
	r.StartCOM = com[0]
	r.EndCOM = com[len(com)-1]
	for i := 1; i < len(com); i++ {
		r.Displacement += math.Hypot(com[i].X-com[i-1].X, com[i].Y-com[i-1].Y)
	}

	heights := HeightSeries(frames, floor)
	r.MinHeight, r.MaxHeight = heights[0], heights[0]
	for _, h := range heights {
		r.MinHeight = math.Min(r.MinHeight, h)
		r.MaxHeight = math.Max(r.MaxHeight, h)
	}
	r.Bounces = BounceCount(heights, FloorBand)
	r.DominantHz = DominantFrequency(heights, rate)
	return r
}
