package pipeline

import (
	"context"
	"fmt"

	"github.com/vantage-audio/spatialmix/internal/analyzer"
	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/errs"
	"github.com/vantage-audio/spatialmix/internal/mixer"
	"github.com/vantage-audio/spatialmix/internal/muxer"
	"github.com/vantage-audio/spatialmix/internal/preset"
	"github.com/vantage-audio/spatialmix/internal/report"
	"github.com/vantage-audio/spatialmix/internal/separator"
)

// Outcome is the result of a single Run: the mix, the measurement that
// drove the adaptive preset, and the output paths actually written.
type Outcome struct {
	Measurement   analyzer.Measurement
	AppliedPreset preset.Preset
	Mix           mixer.Result
	WAV714Path    string
	AAC51Path     string
}

// Run separates, analyzes, mixes and writes a single input track per
// cfg. It always writes the 7.1.4 WAV; the 5.1 AAC fallback is written
// only when cfg.WriteAACFold is set.
func Run(ctx context.Context, cfg *Config, inputPath string, progress dsp.ProgressFunc) (Outcome, error) {
	base, ok := preset.ByName(cfg.Quality)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", errs.ErrInvalidPreset, cfg.Quality)
	}

	// Analyzer and Separator are independent consumers of the same input
	// stereo PCM (spec.md's data-flow diagram), not a chain: the analyzer
	// must never see separator output, since Demucs stem separation is a
	// lossy reconstruction. Load the original file directly for analysis.
	input, err := separator.LoadStereo(inputPath)
	if err != nil {
		return Outcome{}, &errs.TrackError{Path: inputPath, Wrapped: err}
	}
	meas := analyzer.Analyze(input.Left, input.Right, input.SampleRate, progress)
	applied := preset.Adapt(base, meas)

	stems, err := separator.Separate(ctx, inputPath, cfg.WorkDir, cfg.SeparatorModel, cfg.SampleRate, progress)
	if err != nil {
		return Outcome{}, &errs.TrackError{Path: inputPath, Wrapped: err}
	}

	mix := mixer.MixTo714(stems, applied, progress)

	wavPath, tagErr := muxer.WriteWAV714(ctx, mix, cfg.OutputWAV714, progress)
	if tagErr != nil && wavPath == "" {
		return Outcome{}, &errs.TrackError{Path: inputPath, Wrapped: tagErr}
	}

	out := Outcome{Measurement: meas, AppliedPreset: applied, Mix: mix, WAV714Path: wavPath}

	if cfg.WriteAACFold {
		aacPath, err := muxer.WriteAAC51(ctx, mix, cfg.OutputAAC51, cfg.AACBitrate, progress)
		if err != nil {
			return out, &errs.TrackError{Path: inputPath, Wrapped: err}
		}
		out.AAC51Path = aacPath
	}

	if cfg.ReportDir != "" {
		store := report.New(cfg.ReportDir)
		if err := store.Init(); err == nil {
			store.Save(inputPath, cfg.SampleRate, cfg.Quality, meas, applied, out.WAV714Path, out.AAC51Path)
		}
	}

	return out, nil
}
