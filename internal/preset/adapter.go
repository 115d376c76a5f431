package preset

import "github.com/vantage-audio/spatialmix/internal/analyzer"

// Adapt returns a new Preset with bounded, stacked adjustments applied on
// top of base, tuned by m. base is never mutated. Rules evaluate
// independently; each clamp is applied at the point of assignment, per
// spec.md §4.3.
func Adapt(base Preset, m analyzer.Measurement) Preset {
	p := base // value copy

	switch {
	case m.BassEnergyRatio > 0.30:
		p.BassLFEGain = min(p.BassLFEGain+0.10, 1.0)
		p.BassCenterGain = max(p.BassCenterGain-0.05, 0.50)
	case m.BassEnergyRatio < 0.15:
		p.BassLFEGain = max(p.BassLFEGain-0.10, 0.40)
		p.BassCenterGain = min(p.BassCenterGain+0.05, 0.85)
	}

	switch {
	case m.SpectralCentroidHz > 3500:
		p.OtherHeightGain = min(p.OtherHeightGain+0.06, 0.35)
		p.DrumHeightBleed = min(p.DrumHeightBleed+0.04, 0.15)
	case m.SpectralCentroidHz < 1200:
		p.OtherHeightGain = max(p.OtherHeightGain-0.05, 0.10)
	}

	switch {
	case m.TransientDensity > 0.20:
		p.DrumHeightBleed = max(p.DrumHeightBleed-0.03, 0.03)
		p.SurroundDelayMs = max(p.SurroundDelayMs-3.0, 8.0)
	case m.TransientDensity < 0.05:
		p.OtherSideGain = min(p.OtherSideGain+0.08, 0.80)
		p.OtherRearGain = min(p.OtherRearGain+0.06, 0.55)
		p.SurroundDelayMs = min(p.SurroundDelayMs+4.0, 25.0)
	}

	switch {
	case m.StereoWidth > 0.45:
		p.OtherSideGain = min(p.OtherSideGain+0.05, 0.80)
		p.OtherRearGain = min(p.OtherRearGain+0.04, 0.55)
		p.VocalWidthBleed = min(p.VocalWidthBleed+0.03, 0.20)
	case m.StereoWidth < 0.10:
		p.OtherSideGain = max(p.OtherSideGain-0.08, 0.40)
		p.OtherRearGain = max(p.OtherRearGain-0.05, 0.25)
	}

	switch {
	case m.DynamicRangeDB < 12.0:
		p.TargetPeakDBFS = -1.5
	case m.DynamicRangeDB > 30.0:
		p.TargetPeakDBFS = -0.5
	}

	return p
}
