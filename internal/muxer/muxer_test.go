package muxer

import (
	"os"
	"testing"
)

func TestWithExtReplacesExtension(t *testing.T) {
	if got := withExt("/tmp/mix.raw", ".wav"); got != "/tmp/mix.wav" {
		t.Fatalf("expected /tmp/mix.wav, got %s", got)
	}
}

func TestWithExtAddsExtensionWhenMissing(t *testing.T) {
	if got := withExt("/tmp/mix", ".m4a"); got != "/tmp/mix.m4a" {
		t.Fatalf("expected /tmp/mix.m4a, got %s", got)
	}
}

func TestWithSuffixPreservesExtension(t *testing.T) {
	if got := withSuffix("/tmp/mix.wav", "_tagged"); got != "/tmp/mix_tagged.wav" {
		t.Fatalf("expected /tmp/mix_tagged.wav, got %s", got)
	}
}

func TestWritePCMWritesNonEmptyWAV(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.wav"

	ch0 := []float64{0.0, 0.5, -0.5, 1.0, -1.0}
	ch1 := []float64{0.0, -0.5, 0.5, -1.0, 1.0}

	if err := writePCM(path, [][]float64{ch0, ch1}, 2, 48000); err != nil {
		t.Fatalf("writePCM failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty WAV file")
	}
}
