// Package stem defines the stereo buffer and four-stem container that
// flow between the separator, analyzer and mixer.
package stem

import "github.com/vantage-audio/spatialmix/internal/dsp"

// Stereo is a two-channel audio buffer: Left and Right hold equal-length
// sample slices in [-1, +1] at SampleRate.
type Stereo struct {
	Left, Right []float64
	SampleRate  int
}

// Frames returns the buffer length in samples.
func (s Stereo) Frames() int {
	return len(s.Left)
}

// Mono folds left/right down to a single channel via dsp.ToMono.
func (s Stereo) Mono() []float64 {
	return dsp.ToMono(s.Left, s.Right)
}

// NewStereoFromMono duplicates a single channel across left and right, per
// the "mono stem is duplicated to stereo" invariant.
func NewStereoFromMono(mono []float64, sampleRate int) Stereo {
	left := make([]float64, len(mono))
	right := make([]float64, len(mono))
	copy(left, mono)
	copy(right, mono)
	return Stereo{Left: left, Right: right, SampleRate: sampleRate}
}

// Set is the ordered four-tuple of separated stems. All four share one
// sample rate and length once NewSet has run.
type Set struct {
	Vocals, Drums, Bass, Other Stereo
	SampleRate                 int
}

// NewSet builds a Set from four stereo stems, enforcing the invariant that
// shorter stems are zero-padded to the maximum length. Each stem is
// assumed already stereo; use NewStereoFromMono on mono sources first.
func NewSet(vocals, drums, bass, other Stereo) Set {
	maxLen := vocals.Frames()
	for _, s := range []Stereo{drums, bass, other} {
		if s.Frames() > maxLen {
			maxLen = s.Frames()
		}
	}

	pad := func(s Stereo) Stereo {
		if s.Frames() == maxLen {
			return s
		}
		padded := dsp.MatchLengths(s.Left, s.Right)
		// MatchLengths pads each slice independently to the longest of the
		// *pair*; re-pad against the set-wide max explicitly.
		left := make([]float64, maxLen)
		right := make([]float64, maxLen)
		copy(left, padded[0])
		copy(right, padded[1])
		return Stereo{Left: left, Right: right, SampleRate: s.SampleRate}
	}

	v, d, b, o := pad(vocals), pad(drums), pad(bass), pad(other)
	sr := v.SampleRate
	if sr == 0 {
		sr = d.SampleRate
	}
	return Set{Vocals: v, Drums: d, Bass: b, Other: o, SampleRate: sr}
}

// Frames returns the (shared) sample count of every stem in the set.
func (s Set) Frames() int {
	return s.Vocals.Frames()
}
