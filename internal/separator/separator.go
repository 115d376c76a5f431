// Package separator wraps the external Demucs stem-separation process.
// It is a collaborator boundary per spec.md: the actual model inference
// happens out-of-process, and this package is responsible for invoking
// it, locating its output, and ingesting the four resulting WAV files
// into a stem.Set at the pipeline's target sample rate.
package separator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/errs"
	"github.com/vantage-audio/spatialmix/internal/stem"
)

// Demucs model names, per original_source/spatial_audio/config.py.
const (
	ModelHTDemucs   = "htdemucs"
	ModelHTDemucsFT = "htdemucs_ft"
	DefaultModel    = ModelHTDemucs
)

var stemOrder = [4]string{"vocals", "drums", "bass", "other"}

// Separate runs `python3 -m demucs` against inputPath, writing its output
// under workDir, then loads and resamples the four stems to targetSR.
func Separate(ctx context.Context, inputPath, workDir, modelName string, targetSR int, progress dsp.ProgressFunc) (stem.Set, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	report(progress, fmt.Sprintf("separating stems with Demucs (%s)...", modelName))

	cmd := exec.CommandContext(ctx, "python3", "-m", "demucs",
		"-n", modelName,
		"--out", workDir,
		inputPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stem.Set{}, &errs.TrackError{Path: inputPath, Wrapped: fmt.Errorf("%w: %s", errs.ErrSeparatorFailed, tail(stderr.String(), 1000))}
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	stemDir := filepath.Join(workDir, modelName, base)

	loaded := make(map[string]stem.Stereo, 4)
	for _, name := range stemOrder {
		path := filepath.Join(stemDir, name+".wav")
		s, err := loadStereo(path, targetSR)
		if err != nil {
			return stem.Set{}, &errs.TrackError{Path: path, Wrapped: fmt.Errorf("%w: %s", errs.ErrMissingStem, err)}
		}
		loaded[name] = s
		report(progress, fmt.Sprintf("loaded stem: %s (%d samples)", name, s.Frames()))
	}

	report(progress, "stem separation complete.")
	return stem.NewSet(loaded["vocals"], loaded["drums"], loaded["bass"], loaded["other"]), nil
}

// loadStereo reads a WAV file, coerces it to stereo and resamples it to
// targetSR if its native rate differs.
func loadStereo(path string, targetSR int) (stem.Stereo, error) {
	s, err := LoadStereo(path)
	if err != nil {
		return stem.Stereo{}, err
	}

	if s.SampleRate != targetSR {
		s = stem.Stereo{
			Left:       dsp.Resample(s.Left, s.SampleRate, targetSR),
			Right:      dsp.Resample(s.Right, s.SampleRate, targetSR),
			SampleRate: targetSR,
		}
	}
	return s, nil
}

// LoadStereo reads a WAV file straight off disk and coerces it to stereo
// at its native sample rate, with no resampling. It is the entry point
// for any consumer of the original input signal — the analyzer, in
// particular, must measure the same file Separate() is handed, not a
// derivative of Separate's (lossy) output. Per
// original_source/main.py:60-76, analysis runs on sf.read(input_path)
// directly, strictly before and independent of separate().
func LoadStereo(path string) (stem.Stereo, error) {
	f, err := os.Open(path)
	if err != nil {
		return stem.Stereo{}, fmt.Errorf("%w: %v", errs.ErrInputUnreadable, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return stem.Stereo{}, fmt.Errorf("%w: not a valid WAV file", errs.ErrInputUnreadable)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return stem.Stereo{}, fmt.Errorf("%w: %v", errs.ErrInputUnreadable, err)
	}

	return ensureStereo(buf), nil
}

// ensureStereo converts a decoded PCM buffer to a Stereo pair in
// [-1, +1], duplicating mono sources and discarding channels beyond the
// first two.
func ensureStereo(buf *audio.IntBuffer) stem.Stereo {
	nCh := buf.Format.NumChannels
	n := len(buf.Data) / nCh
	full := 1 << (buf.SourceBitDepth - 1)
	scale := 1.0 / float64(full)

	if nCh == 1 {
		mono := make([]float64, n)
		for i := 0; i < n; i++ {
			mono[i] = float64(buf.Data[i]) * scale
		}
		return stem.NewStereoFromMono(mono, buf.Format.SampleRate)
	}

	left := make([]float64, n)
	right := make([]float64, n)
	for i := 0; i < n; i++ {
		left[i] = float64(buf.Data[i*nCh]) * scale
		right[i] = float64(buf.Data[i*nCh+1]) * scale
	}
	return stem.Stereo{Left: left, Right: right, SampleRate: buf.Format.SampleRate}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func report(progress dsp.ProgressFunc, msg string) {
	if progress != nil {
		progress(msg)
	}
}
