package dsp

import (
	"math"
	"testing"
)

func TestMidSideRoundTrip(t *testing.T) {
	left := []float64{1, 0.5, -0.2, 0.8}
	right := []float64{0.9, -0.1, 0.3, -0.4}

	mid, side := MidSide(left, right)
	for i := range left {
		recL := mid[i] + side[i]
		recR := mid[i] - side[i]
		if math.Abs(recL-left[i]) > 1e-12 || math.Abs(recR-right[i]) > 1e-12 {
			t.Fatalf("mid/side round trip failed at %d: got (%v,%v) want (%v,%v)", i, recL, recR, left[i], right[i])
		}
	}
}

func TestPeakNormalizeSilencePassesThrough(t *testing.T) {
	channels := [][]float64{{0, 0, 0}, {0, 0, 0}}
	out := PeakNormalize(channels, -1.0)
	for c := range channels {
		for i := range channels[c] {
			if out[c][i] != channels[c][i] {
				t.Errorf("silence should pass through unchanged")
			}
		}
	}
}

func TestPeakNormalizeReachesTarget(t *testing.T) {
	channels := [][]float64{{0.1, 0.5, -0.9}, {0.2, -0.3, 0.4}}
	target := -1.0
	out := PeakNormalize(channels, target)

	peak := 0.0
	for _, ch := range out {
		for _, v := range ch {
			if math.Abs(v) > peak {
				peak = math.Abs(v)
			}
		}
	}
	want := DBToLinear(target)
	if math.Abs(peak-want) > 1e-9 {
		t.Errorf("expected peak %v, got %v", want, peak)
	}
}

func TestSoftClipIdentityBelowThreshold(t *testing.T) {
	channels := [][]float64{{0.1, -0.5, 0.94, -0.95}}
	out := SoftClip(channels, 0.95)
	for i, v := range channels[0] {
		if out[0][i] != v {
			t.Errorf("expected identity at %d, got %v want %v", i, out[0][i], v)
		}
	}
}

func TestSoftClipSaturatesAboveThreshold(t *testing.T) {
	channels := [][]float64{{1.5, -1.5}}
	out := SoftClip(channels, 0.95)
	for _, v := range out[0] {
		if math.Abs(v) >= 1.5 {
			t.Errorf("expected saturation to reduce magnitude, got %v", v)
		}
		if math.Abs(v) < 0.95 {
			t.Errorf("expected saturated value to stay above threshold, got %v", v)
		}
	}
}

func TestApplyDelayZeroIsIdentity(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	out := ApplyDelay(x, 0, 48000)
	for i := range x {
		if out[i] != x[i] {
			t.Errorf("zero delay should be identity at %d", i)
		}
	}
}

func TestApplyDelayShiftsAndTruncates(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	// 2 samples of delay at 48kHz = 2/48000*1000 ms
	delayMs := 2.0 / 48000.0 * 1000.0
	out := ApplyDelay(x, delayMs, 48000)
	want := []float64{0, 0, 1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("at %d: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestMatchLengthsPads(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 2, 3, 4}
	out := MatchLengths(a, b)
	if len(out[0]) != 4 {
		t.Fatalf("expected padded length 4, got %d", len(out[0]))
	}
	if out[0][0] != 1 || out[0][1] != 2 || out[0][2] != 0 || out[0][3] != 0 {
		t.Errorf("unexpected padded contents: %v", out[0])
	}
}

func TestDBLinearRoundTrip(t *testing.T) {
	for _, db := range []float64{-20, -1, -0.5, 0} {
		amp := DBToLinear(db)
		back := LinearToDB(amp)
		if math.Abs(back-db) > 1e-9 {
			t.Errorf("round trip failed: %v -> %v -> %v", db, amp, back)
		}
	}
}
