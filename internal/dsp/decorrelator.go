package dsp

import (
	"math"
	"math/rand/v2"
)

// allpassStage holds one cascaded second-order allpass section's
// normalized biquad coefficients.
type allpassStage struct {
	b0, b1, b2 float64
	a1, a2     float64 // a0 already normalized out
}

// Decorrelator is a cascade of seeded second-order allpass sections. Same
// seed always yields identical coefficients (built on math/rand/v2's PCG,
// the generator family named in the design notes), so two Decorrelators
// built with the same parameters produce bit-identical output.
type Decorrelator struct {
	stages []allpassStage
}

// DecorrelatorParams configures allpass section generation. MinFreqHz and
// MaxFreqHz default to 300/2000 Hz when zero.
type DecorrelatorParams struct {
	NumStages  int
	SampleRate int
	Seed       uint64
	MinFreqHz  float64
	MaxFreqHz  float64
}

// NewDecorrelator builds a Decorrelator from p.
func NewDecorrelator(p DecorrelatorParams) *Decorrelator {
	minFreq := p.MinFreqHz
	if minFreq <= 0 {
		minFreq = 300.0
	}
	maxFreq := p.MaxFreqHz
	if maxFreq <= 0 {
		maxFreq = 2000.0
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9E3779B97F4A7C15))

	stages := make([]allpassStage, p.NumStages)
	nyquist := float64(p.SampleRate)/2 - 1

	for i := 0; i < p.NumStages; i++ {
		// Log-spaced center frequency across [minFreq, maxFreq].
		var fc float64
		if p.NumStages <= 1 {
			fc = minFreq
		} else {
			t := float64(i) / float64(p.NumStages-1)
			fc = minFreq * math.Pow(maxFreq/minFreq, t)
		}
		// Jitter by a uniform factor in [0.8, 1.2].
		jitter := 0.8 + 0.4*rng.Float64()
		fc *= jitter
		fc = clamp(fc, 20.0, nyquist)

		// Q uniform in [0.3, 2.5].
		q := 0.3 + (2.5-0.3)*rng.Float64()

		w0 := 2 * math.Pi * fc / float64(p.SampleRate)
		alpha := math.Sin(w0) / (2 * q)
		cosw0 := math.Cos(w0)

		b0 := 1 - alpha
		b1 := -2 * cosw0
		b2 := 1 + alpha
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha

		stages[i] = allpassStage{
			b0: b0 / a0,
			b1: b1 / a0,
			b2: b2 / a0,
			a1: a1 / a0,
			a2: a2 / a0,
		}
	}

	return &Decorrelator{stages: stages}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Process cascade-filters x through every allpass stage in order. The
// output's magnitude spectrum equals the input's (up to biquad numerical
// precision); only phase is altered.
func (d *Decorrelator) Process(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for _, s := range d.stages {
		out = s.apply(out)
	}
	return out
}

// ProcessBlended returns (1-blend)*x + blend*Process(x).
func (d *Decorrelator) ProcessBlended(x []float64, blend float64) []float64 {
	wet := d.Process(x)
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (1-blend)*x[i] + blend*wet[i]
	}
	return out
}

// apply runs Direct Form I on x, resetting state each call (the mixer
// always processes a whole track in one call, so no cross-call state is
// needed).
func (s allpassStage) apply(x []float64) []float64 {
	out := make([]float64, len(x))
	var x1, x2, y1, y2 float64
	for i, xi := range x {
		yi := s.b0*xi + s.b1*x1 + s.b2*x2 - s.a1*y1 - s.a2*y2
		out[i] = yi
		x2, x1 = x1, xi
		y2, y1 = y1, yi
	}
	return out
}

// DecorrelationBank holds K decorrelators built with seeds seedBase+i for
// i in [0, K), so each channel gets a mutually phase-independent copy.
type DecorrelationBank struct {
	decorrelators []*Decorrelator
}

// NewDecorrelationBank builds a bank of numChannels decorrelators.
func NewDecorrelationBank(sampleRate, numChannels, numStages int, seedBase uint64, minFreqHz, maxFreqHz float64) *DecorrelationBank {
	bank := &DecorrelationBank{decorrelators: make([]*Decorrelator, numChannels)}
	for i := 0; i < numChannels; i++ {
		bank.decorrelators[i] = NewDecorrelator(DecorrelatorParams{
			NumStages:  numStages,
			SampleRate: sampleRate,
			Seed:       seedBase + uint64(i),
			MinFreqHz:  minFreqHz,
			MaxFreqHz:  maxFreqHz,
		})
	}
	return bank
}

// Process fully decorrelates x using the decorrelator for channel.
func (b *DecorrelationBank) Process(x []float64, channel int) []float64 {
	return b.decorrelators[channel].Process(x)
}

// ProcessBlended decorrelates and blends with the dry signal for channel.
func (b *DecorrelationBank) ProcessBlended(x []float64, channel int, blend float64) []float64 {
	return b.decorrelators[channel].ProcessBlended(x, blend)
}
