// Package preset defines the static, strongly-typed spatial mix
// configuration and its three base quality levels. String-keyed presets
// only exist at the CLI boundary, parsed once into a Preset value (see
// spec.md §9's "Replacing dynamic containers" design note).
package preset

// Preset holds the 16 recognized spatial-mix options. All gain fields are
// linear amplitude, never dB.
type Preset struct {
	VocalCenterGain  float64 `yaml:"vocal_center_gain"`
	VocalWidthBleed  float64 `yaml:"vocal_width_bleed"`
	BassLFEGain      float64 `yaml:"bass_lfe_gain"`
	BassCenterGain   float64 `yaml:"bass_center_gain"`
	DrumFrontGain    float64 `yaml:"drum_front_gain"`
	DrumLFEGain      float64 `yaml:"drum_lfe_gain"`
	DrumHeightBleed  float64 `yaml:"drum_height_bleed"`
	OtherSideGain    float64 `yaml:"other_side_gain"`
	OtherRearGain    float64 `yaml:"other_rear_gain"`
	OtherHeightGain  float64 `yaml:"other_height_gain"`
	OtherFrontBleed  float64 `yaml:"other_front_bleed"`
	SurroundDelayMs  float64 `yaml:"surround_delay_ms"`
	RearExtraDelayMs float64 `yaml:"rear_extra_delay_ms"`
	TargetPeakDBFS   float64 `yaml:"target_peak_dbfs"`
	FIRTaps          int     `yaml:"fir_taps"`
	DecorrStages     int     `yaml:"decorr_stages"`
}

// Medium is the default base preset; Low and High differ chiefly in
// fir_taps and decorr_stages (and, for High, a few gain refinements).
func Medium() Preset {
	return Preset{
		VocalCenterGain:  0.90,
		VocalWidthBleed:  0.12,
		BassLFEGain:      0.80,
		BassCenterGain:   0.70,
		DrumFrontGain:    0.85,
		DrumLFEGain:      0.60,
		DrumHeightBleed:  0.08,
		OtherSideGain:    0.65,
		OtherRearGain:    0.40,
		OtherHeightGain:  0.22,
		OtherFrontBleed:  0.15,
		SurroundDelayMs:  15.0,
		RearExtraDelayMs: 8.0,
		TargetPeakDBFS:   -1.0,
		FIRTaps:          511,
		DecorrStages:     10,
	}
}

// Low is the lightest-weight quality level.
func Low() Preset {
	p := Medium()
	p.FIRTaps = 255
	p.DecorrStages = 6
	return p
}

// High is the highest-quality level.
func High() Preset {
	p := Medium()
	p.FIRTaps = 1023
	p.DecorrStages = 14
	p.VocalCenterGain = 0.88
	p.OtherHeightGain = 0.25
	return p
}

// ByName resolves the three recognized base preset names. ok is false for
// any other key, matching spec.md §7's "invalid preset key rejected at
// build time" policy.
func ByName(name string) (Preset, bool) {
	switch name {
	case "low":
		return Low(), true
	case "medium":
		return Medium(), true
	case "high":
		return High(), true
	default:
		return Preset{}, false
	}
}
