// Package analysis extracts summary signals from recorded runs.
//
// Frames recorded by [dynamo.Simulator] are reduced to series, which can then be
// inspected for bounces or periodic motion:
//
//   - [CenterOfMass] and [HeightSeries]: where the body is, frame by frame
//   - [PowerSpectrum] and [DominantFrequency]: oscillation of a series
//   - [BounceCount]: how many times a series drops onto the floor
//   - [Summarize]: all of the above for one run
//
// A pinned chain swinging under gravity shows a clear spectral peak:
//
//	heights := analysis.HeightSeries(frames, params.Height)
//	hz := analysis.DominantFrequency(heights, 60)
package analysis
