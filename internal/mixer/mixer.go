// Package mixer implements the spatial mixer: it takes four separated
// stems and a tuned preset and produces a 12-channel 7.1.4 buffer.
package mixer

import (
	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/preset"
	"github.com/vantage-audio/spatialmix/internal/stem"
)

const (
	lfeCrossoverHz    = 80.0
	heightHighpassHz  = 500.0
	decorrSeedBase    = 42
	decorrMinFreqHz   = 300.0
	decorrMaxFreqHz   = 2000.0
	blendVocalWidth   = 0.30
	blendSurround     = 0.40
	blendRearExtra    = 0.10 // stacked onto blendSurround for BL/BR
	blendHeight       = 0.65
	blendHeightExtra  = 0.10 // stacked onto blendHeight for TBL/TBR
	softClipThreshold = 0.95
)

// Buffer714 is a 12-channel audio buffer, indexed by the Ch* constants.
type Buffer714 [NumChannels714][]float64

// Result is the mixer's output: a 7.1.4 buffer at the stems' sample rate.
type Result struct {
	Audio      Buffer714
	SampleRate int
}

// engine holds the per-invocation crossovers and decorrelation bank built
// once from the tuned preset, per spec.md §3's lifecycle note.
type engine struct {
	xoLFE    *dsp.Crossover
	xoHeight *dsp.Crossover
	decorr   *dsp.DecorrelationBank
}

func newEngine(sampleRate int, p preset.Preset) *engine {
	return &engine{
		xoLFE:    dsp.NewCrossover(lfeCrossoverHz, sampleRate, p.FIRTaps),
		xoHeight: dsp.NewCrossover(heightHighpassHz, sampleRate, p.FIRTaps),
		decorr:   dsp.NewDecorrelationBank(sampleRate, NumDecorrChannels, p.DecorrStages, decorrSeedBase, decorrMinFreqHz, decorrMaxFreqHz),
	}
}

// MixTo714 mixes stems into a 7.1.4 buffer per the tuned preset p. The
// four stems' contributions are computed concurrently into independent
// accumulators and summed in the fixed order vocals, bass, drums, other,
// so results stay reproducible within floating-point associativity
// tolerance (spec.md §5, §8 invariant 7) regardless of goroutine
// scheduling.
func MixTo714(stems stem.Set, p preset.Preset, progress dsp.ProgressFunc) Result {
	report(progress, "Building spatial mix (7.1.4)...")
	sr := stems.SampleRate
	n := stems.Frames()

	eng := newEngine(sr, p)

	report(progress, "Routing stems...")
	type contribution = Buffer714
	contributions := make([]contribution, 4)
	done := make(chan int, 4)

	go func() { contributions[0] = eng.routeVocals(stems.Vocals, p); done <- 0 }()
	go func() { contributions[1] = eng.routeBass(stems.Bass, p); done <- 1 }()
	go func() { contributions[2] = eng.routeDrums(stems.Drums, p); done <- 2 }()
	go func() { contributions[3] = eng.routeOther(stems.Other, p, sr); done <- 3 }()
	for i := 0; i < 4; i++ {
		<-done
	}

	var output Buffer714
	for c := 0; c < NumChannels714; c++ {
		output[c] = make([]float64, n)
	}
	// Fixed summation order: vocals, bass, drums, other.
	for _, contrib := range contributions {
		for c := 0; c < NumChannels714; c++ {
			if contrib[c] == nil {
				continue
			}
			for i, v := range contrib[c] {
				output[c][i] += v
			}
		}
	}

	report(progress, "Normalizing & limiting...")
	clipped := dsp.SoftClip(output[:], softClipThreshold)
	normalized := dsp.PeakNormalize(clipped, p.TargetPeakDBFS)
	var final Buffer714
	copy(final[:], normalized)

	report(progress, "Mix complete.")
	return Result{Audio: final, SampleRate: sr}
}

func report(fn dsp.ProgressFunc, msg string) {
	if fn != nil {
		fn(msg)
	}
}

func scale(x []float64, g float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * g
	}
	return out
}

func addInto(dst, src []float64) {
	for i, v := range src {
		dst[i] += v
	}
}

// routeVocals: mid → FC (highpassed), side → decorrelated width bleed on
// FL (+side) / FR (-side, inverted for width).
func (e *engine) routeVocals(vocals stem.Stereo, p preset.Preset) Buffer714 {
	var out Buffer714
	n := vocals.Frames()
	for c := range out {
		out[c] = make([]float64, n)
	}

	mid, side := dsp.MidSide(vocals.Left, vocals.Right)
	center := scale(e.xoLFE.Highpass(mid), p.VocalCenterGain)
	addInto(out[ChFC], center)

	sideL := scale(side, p.VocalWidthBleed)
	sideR := scale(side, -p.VocalWidthBleed)
	addInto(out[ChFL], e.decorr.ProcessBlended(sideL, DSL, blendVocalWidth))
	addInto(out[ChFR], e.decorr.ProcessBlended(sideR, DSR, blendVocalWidth))
	return out
}

// routeBass: sub (<80Hz) → LFE, body (>80Hz) → FC.
func (e *engine) routeBass(bass stem.Stereo, p preset.Preset) Buffer714 {
	var out Buffer714
	n := bass.Frames()
	for c := range out {
		out[c] = make([]float64, n)
	}

	bm := bass.Mono()
	addInto(out[ChLFE], scale(e.xoLFE.Lowpass(bm), p.BassLFEGain))
	addInto(out[ChFC], scale(e.xoLFE.Highpass(bm), p.BassCenterGain))
	return out
}

// routeDrums: kick sub → LFE, stereo image (>80Hz) → FL/FR, optional
// decorrelated shimmer (>500Hz) → TFL/TFR.
func (e *engine) routeDrums(drums stem.Stereo, p preset.Preset) Buffer714 {
	var out Buffer714
	n := drums.Frames()
	for c := range out {
		out[c] = make([]float64, n)
	}

	dm := drums.Mono()
	addInto(out[ChLFE], scale(e.xoLFE.Lowpass(dm), p.DrumLFEGain))
	addInto(out[ChFL], scale(e.xoLFE.Highpass(drums.Left), p.DrumFrontGain))
	addInto(out[ChFR], scale(e.xoLFE.Highpass(drums.Right), p.DrumFrontGain))

	if p.DrumHeightBleed > 0.01 {
		dhp := e.xoHeight.Highpass(dm)
		shimmer := scale(dhp, p.DrumHeightBleed)
		addInto(out[ChTFL], e.decorr.ProcessBlended(shimmer, DTFL, blendHeight))
		addInto(out[ChTFR], e.decorr.ProcessBlended(shimmer, DTFR, blendHeight))
	}
	return out
}

// routeOther: SL/SR primary placement (Haas-delayed, decorrelated),
// BL/BR decorrelated rears with extra delay, optional height bleed, and
// subtle front presence.
func (e *engine) routeOther(other stem.Stereo, p preset.Preset, sampleRate int) Buffer714 {
	var out Buffer714
	n := other.Frames()
	for c := range out {
		out[c] = make([]float64, n)
	}

	om := other.Mono()
	olHP := e.xoLFE.Highpass(other.Left)
	orHP := e.xoLFE.Highpass(other.Right)
	omHP := e.xoLFE.Highpass(om)

	// Side surrounds.
	slRaw := scale(olHP, p.OtherSideGain)
	srRaw := scale(orHP, p.OtherSideGain)
	slDelayed := dsp.ApplyDelay(slRaw, p.SurroundDelayMs, sampleRate)
	srDelayed := dsp.ApplyDelay(srRaw, p.SurroundDelayMs, sampleRate)
	addInto(out[ChSL], e.decorr.ProcessBlended(slDelayed, DSL, blendSurround))
	addInto(out[ChSR], e.decorr.ProcessBlended(srDelayed, DSR, blendSurround))

	// Back surrounds: extra delay, decorrelated more heavily.
	totalRearDelay := p.SurroundDelayMs + p.RearExtraDelayMs
	blRaw := dsp.ApplyDelay(scale(olHP, p.OtherRearGain), totalRearDelay, sampleRate)
	brRaw := dsp.ApplyDelay(scale(orHP, p.OtherRearGain), totalRearDelay, sampleRate)
	addInto(out[ChBL], e.decorr.ProcessBlended(blRaw, DBL, blendSurround+blendRearExtra))
	addInto(out[ChBR], e.decorr.ProcessBlended(brRaw, DBR, blendSurround+blendRearExtra))

	// Height channels: ambient content above heightHighpassHz.
	if p.OtherHeightGain > 0.01 {
		otherHH := e.xoHeight.Highpass(omHP)
		front := scale(otherHH, p.OtherHeightGain)
		addInto(out[ChTFL], e.decorr.ProcessBlended(front, DTFL, blendHeight))
		addInto(out[ChTFR], e.decorr.ProcessBlended(front, DTFR, blendHeight))

		rear := scale(otherHH, p.OtherHeightGain*0.8)
		addInto(out[ChTBL], e.decorr.ProcessBlended(rear, DTBL, blendHeight+blendHeightExtra))
		addInto(out[ChTBR], e.decorr.ProcessBlended(rear, DTBR, blendHeight+blendHeightExtra))
	}

	// Front bleed.
	if p.OtherFrontBleed > 0.01 {
		addInto(out[ChFL], scale(olHP, p.OtherFrontBleed))
		addInto(out[ChFR], scale(orHP, p.OtherFrontBleed))
	}

	return out
}
