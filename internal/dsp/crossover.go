package dsp

import "math"

// Crossover is an immutable linear-phase FIR lowpass/highpass pair. The
// highpass is derived from the lowpass by spectral inversion (negate every
// tap, add 1.0 at the center), which guarantees Lowpass(x) + Highpass(x)
// reconstructs x delayed by GroupDelay samples, with both outputs sharing
// that same constant group delay.
type Crossover struct {
	CutoffHz    float64
	SampleRate  int
	NumTaps     int
	GroupDelay  int
	lowpassTaps []float64
	highpass    []float64
}

// NewCrossover designs a Hann-windowed-sinc lowpass at cutoffHz and its
// spectral-inversion complement. numTaps is incremented by one if even, so
// the filter is always a Type-I (odd-length, symmetric) FIR.
func NewCrossover(cutoffHz float64, sampleRate, numTaps int) *Crossover {
	if numTaps%2 == 0 {
		numTaps++
	}
	groupDelay := (numTaps - 1) / 2

	lp := windowedSincLowpass(cutoffHz, float64(sampleRate), numTaps)
	hp := make([]float64, numTaps)
	for i, c := range lp {
		hp[i] = -c
	}
	hp[groupDelay] += 1.0

	return &Crossover{
		CutoffHz:    cutoffHz,
		SampleRate:  sampleRate,
		NumTaps:     numTaps,
		GroupDelay:  groupDelay,
		lowpassTaps: lp,
		highpass:    hp,
	}
}

// windowedSincLowpass designs a normalized-gain Hann-windowed sinc lowpass
// FIR with cutoffHz relative to sampleRate.
func windowedSincLowpass(cutoffHz, sampleRate float64, numTaps int) []float64 {
	taps := make([]float64, numTaps)
	fc := cutoffHz / sampleRate // normalized cutoff, cycles/sample
	m := numTaps - 1
	center := float64(m) / 2.0

	sum := 0.0
	for n := 0; n < numTaps; n++ {
		x := float64(n) - center
		var sinc float64
		if x == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*x) / (math.Pi * x)
		}
		// Hann window
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/float64(m))
		taps[n] = sinc * w
		sum += taps[n]
	}
	// Normalize for unity gain at DC.
	if sum != 0 {
		for i := range taps {
			taps[i] /= sum
		}
	}
	return taps
}

// Lowpass convolves x with the lowpass FIR, truncating the full
// convolution to len(x) samples (i.e. emitting the delayed signal without
// its tail). Empty input produces empty output.
func (c *Crossover) Lowpass(x []float64) []float64 {
	return convolveTruncated(x, c.lowpassTaps)
}

// Highpass convolves x with the complementary highpass FIR.
func (c *Crossover) Highpass(x []float64) []float64 {
	return convolveTruncated(x, c.highpass)
}

// convolveTruncated performs direct (time-domain) convolution of x with
// fir and truncates the result to len(x). Direct convolution is used
// rather than FFT convolution because it has no dependence on third-party
// FFT padding semantics and the spec leaves the method unspecified as long
// as the perfect-reconstruction invariant holds within floating-point
// tolerance.
func convolveTruncated(x, fir []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 || len(fir) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		var sum float64
		// out[i] = sum_k fir[k] * x[i-k], for k in [0, len(fir))
		kMax := i
		if kMax >= len(fir) {
			kMax = len(fir) - 1
		}
		for k := 0; k <= kMax; k++ {
			sum += fir[k] * x[i-k]
		}
		out[i] = sum
	}
	return out
}
