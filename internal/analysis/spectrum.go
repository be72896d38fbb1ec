package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the FFT of data,
// zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin of
// series sampled at rate samples per second.
func DominantFrequency(series []float64, rate float64) float64 {
	if len(series) < 2 || rate <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for k := 1; k < len(ps); k++ {
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) * rate / float64(2*len(ps))
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
