// Package muxer writes the mixer's 7.1.4 output and the downmix's 5.1
// fold to disk. It is a collaborator boundary per spec.md: writing
// well-formed PCM is this package's job, and encoding/tagging beyond
// plain PCM is delegated to an ffmpeg subprocess, exactly as in a DAW
// post-production chain.
package muxer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/vantage-audio/spatialmix/internal/downmix"
	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/errs"
	"github.com/vantage-audio/spatialmix/internal/mixer"
)

const bitDepth = 24

// DefaultAACBitrate is the default 5.1 compatibility-fallback bitrate,
// per original_source/spatial_audio/config.py.
const DefaultAACBitrate = "320k"

// ffmpegLayout714 and ffmpegLayout51 name ffmpeg's channel_layout tokens
// for the two output formats.
const (
	ffmpegLayout714 = "7.1.4"
	ffmpegLayout51  = "5.1"
)

// CheckFFmpeg reports the path to ffmpeg if it is on PATH and runs, or
// "" if it is unavailable.
func CheckFFmpeg() string {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return ""
	}
	if err := exec.Command(path, "-version").Run(); err != nil {
		return ""
	}
	return path
}

// CheckFFprobe reports the path to ffprobe if it is on PATH, or "" if
// it is unavailable.
func CheckFFprobe() string {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return ""
	}
	return path
}

// WriteWAV714 writes a 12-channel 7.1.4 WAV at bitDepth, then re-muxes
// it through ffmpeg to stamp the channel_layout=7.1.4 tag. If ffmpeg is
// unavailable or tagging fails, the untagged WAV is kept and
// errs.ErrMuxerTagFailed is returned alongside the (still valid) path.
func WriteWAV714(ctx context.Context, res mixer.Result, outPath string, progress dsp.ProgressFunc) (string, error) {
	outPath = withExt(outPath, ".wav")

	report(progress, "writing 7.1.4 WAV (24-bit)...")
	if err := writePCM(outPath, res.Audio[:], mixer.NumChannels714, res.SampleRate); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMuxerEncodeFailed, err)
	}

	ffmpeg := CheckFFmpeg()
	if ffmpeg == "" {
		return outPath, fmt.Errorf("%w: ffmpeg not found, WAV is untagged", errs.ErrMuxerTagFailed)
	}

	report(progress, "tagging channel layout as 7.1.4...")
	tagged := withSuffix(outPath, "_tagged")
	cmd := exec.CommandContext(ctx, ffmpeg, "-y",
		"-i", outPath,
		"-c:a", "pcm_s24le",
		"-channel_layout", ffmpegLayout714,
		tagged,
	)
	if err := cmd.Run(); err != nil {
		return outPath, fmt.Errorf("%w: %v", errs.ErrMuxerTagFailed, err)
	}
	if err := os.Rename(tagged, outPath); err != nil {
		return outPath, fmt.Errorf("%w: %v", errs.ErrMuxerTagFailed, err)
	}
	return outPath, nil
}

// WriteAAC51 folds res to 5.1 via downmix.Fold714To51 and encodes it to
// AAC in an .m4a container via ffmpeg, at bitrate (default
// DefaultAACBitrate). ffmpeg is required; this is an encode-only path.
func WriteAAC51(ctx context.Context, res mixer.Result, outPath, bitrate string, progress dsp.ProgressFunc) (string, error) {
	if bitrate == "" {
		bitrate = DefaultAACBitrate
	}
	outPath = withExt(outPath, ".m4a")

	report(progress, "downmixing 7.1.4 -> 5.1...")
	fold := downmix.Fold714To51(res.Audio)

	ffmpeg := CheckFFmpeg()
	if ffmpeg == "" {
		return "", fmt.Errorf("%w: ffmpeg not found", errs.ErrMuxerEncodeFailed)
	}

	tmp, err := os.CreateTemp("", "spatialmix_51_*.wav")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMuxerEncodeFailed, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := writePCM(tmpPath, fold[:], downmix.NumChannels51, res.SampleRate); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMuxerEncodeFailed, err)
	}

	report(progress, fmt.Sprintf("encoding to AAC 5.1 (%s)...", bitrate))
	cmd := exec.CommandContext(ctx, ffmpeg, "-y",
		"-i", tmpPath,
		"-af", "channelmap=channel_layout="+ffmpegLayout51,
		"-c:a", "aac",
		"-b:a", bitrate,
		outPath,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMuxerEncodeFailed, err)
	}
	return outPath, nil
}

// writePCM interleaves numChannels equal-length float64 slices in
// [-1, +1] and writes them as a bitDepth-bit PCM WAV via go-audio/wav.
func writePCM(path string, channels [][]float64, numChannels, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChannels, 1)
	defer enc.Close()

	n := 0
	if numChannels > 0 {
		n = len(channels[0])
	}
	full := 1 << (bitDepth - 1)

	data := make([]int, n*numChannels)
	for i := 0; i < n; i++ {
		for c := 0; c < numChannels; c++ {
			v := channels[c][i]
			data[i*numChannels+c] = int(v * float64(full-1))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	return enc.Write(buf)
}

func withExt(path, ext string) string {
	base := path[:len(path)-len(filepath.Ext(path))]
	if filepath.Ext(path) == "" {
		base = path
	}
	return base + ext
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return base + suffix + ext
}

func report(progress dsp.ProgressFunc, msg string) {
	if progress != nil {
		progress(msg)
	}
}
