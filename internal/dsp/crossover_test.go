package dsp

import (
	"math"
	"testing"
)

func TestCrossoverOddensNumTaps(t *testing.T) {
	xo := NewCrossover(80, 48000, 512)
	if xo.NumTaps != 513 {
		t.Errorf("expected even numTaps to be incremented to 513, got %d", xo.NumTaps)
	}
	if xo.GroupDelay != (xo.NumTaps-1)/2 {
		t.Errorf("group delay mismatch: got %d, want %d", xo.GroupDelay, (xo.NumTaps-1)/2)
	}
}

func TestCrossoverPerfectReconstruction(t *testing.T) {
	xo := NewCrossover(80, 48000, 255)
	n := 2000
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
	}

	low := xo.Lowpass(x)
	high := xo.Highpass(x)

	var sqErr float64
	for i := 0; i < n; i++ {
		sum := low[i] + high[i]
		var delayed float64
		if i-xo.GroupDelay >= 0 {
			delayed = x[i-xo.GroupDelay]
		}
		diff := sum - delayed
		sqErr += diff * diff
	}
	rms := math.Sqrt(sqErr / float64(n))
	if rms > 1e-9 {
		t.Errorf("reconstruction RMS error too large: %g", rms)
	}
}

func TestCrossoverEmptyInput(t *testing.T) {
	xo := NewCrossover(80, 48000, 255)
	if out := xo.Lowpass(nil); len(out) != 0 {
		t.Errorf("expected empty output for empty input, got %d samples", len(out))
	}
}

func TestCrossoverGroupDelayMatchesBothFilters(t *testing.T) {
	xo := NewCrossover(500, 48000, 511)
	if xo.GroupDelay != 255 {
		t.Errorf("expected group delay 255, got %d", xo.GroupDelay)
	}
}
