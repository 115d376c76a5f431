package preset

import (
	"testing"

	"github.com/vantage-audio/spatialmix/internal/analyzer"
)

func TestByNameRecognizesBasePresets(t *testing.T) {
	for _, name := range []string{"low", "medium", "high"} {
		p, ok := ByName(name)
		if !ok {
			t.Errorf("expected %q to resolve", name)
		}
		if p.FIRTaps%2 == 0 {
			t.Errorf("%q: fir_taps should be odd-capable base value, got %d", name, p.FIRTaps)
		}
	}
}

func TestByNameRejectsUnknown(t *testing.T) {
	if _, ok := ByName("ultra"); ok {
		t.Error("expected unknown preset name to be rejected")
	}
}

func TestLowMediumHighDifferInQuality(t *testing.T) {
	low, medium, high := Low(), Medium(), High()
	if !(low.FIRTaps < medium.FIRTaps && medium.FIRTaps < high.FIRTaps) {
		t.Errorf("expected fir_taps to increase low < medium < high: %d %d %d", low.FIRTaps, medium.FIRTaps, high.FIRTaps)
	}
	if !(low.DecorrStages < medium.DecorrStages && medium.DecorrStages < high.DecorrStages) {
		t.Errorf("expected decorr_stages to increase low < medium < high")
	}
}

func TestAdaptNeverMutatesBase(t *testing.T) {
	base := Medium()
	baseCopy := base
	m := analyzer.Measurement{BassEnergyRatio: 0.5, DynamicRangeDB: 20}
	_ = Adapt(base, m)
	if base != baseCopy {
		t.Errorf("Adapt must not mutate its base argument")
	}
}

func TestAdaptClampBounds(t *testing.T) {
	base := Medium()
	extreme := analyzer.Measurement{
		BassEnergyRatio:    0.99,
		SpectralCentroidHz: 20000,
		TransientDensity:   0.99,
		StereoWidth:        0.99,
		DynamicRangeDB:     5,
	}
	// Apply repeatedly to probe clamp saturation, since a single call
	// already pushes several fields to their bound in this scenario.
	p := base
	for i := 0; i < 5; i++ {
		p = Adapt(p, extreme)
	}

	checks := []struct {
		name     string
		got      float64
		lo, hi   float64
	}{
		{"bass_lfe_gain", p.BassLFEGain, 0.40, 1.0},
		{"bass_center_gain", p.BassCenterGain, 0.50, 0.85},
		{"other_height_gain", p.OtherHeightGain, 0.10, 0.35},
		{"drum_height_bleed", p.DrumHeightBleed, 0.03, 0.15},
		{"surround_delay_ms", p.SurroundDelayMs, 8.0, 25.0},
		{"other_side_gain", p.OtherSideGain, 0.40, 0.80},
		{"other_rear_gain", p.OtherRearGain, 0.25, 0.55},
		{"vocal_width_bleed", p.VocalWidthBleed, 0.0, 0.20},
	}
	for _, c := range checks {
		if c.got < c.lo-1e-9 || c.got > c.hi+1e-9 {
			t.Errorf("%s out of bounds [%v,%v]: got %v", c.name, c.lo, c.hi, c.got)
		}
	}

	if p.TargetPeakDBFS != -1.5 {
		t.Errorf("expected target_peak_dbfs -1.5 for low dynamic range, got %v", p.TargetPeakDBFS)
	}
}

func TestAdaptHighDynamicRange(t *testing.T) {
	base := Medium()
	m := analyzer.Measurement{DynamicRangeDB: 35}
	p := Adapt(base, m)
	if p.TargetPeakDBFS != -0.5 {
		t.Errorf("expected target_peak_dbfs -0.5 for high dynamic range, got %v", p.TargetPeakDBFS)
	}
}
