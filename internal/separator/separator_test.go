package separator

import (
	"os"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestEnsureStereoDuplicatesMono(t *testing.T) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 48000},
		Data:           []int{0, 16384, -16384},
		SourceBitDepth: 16,
	}
	s := ensureStereo(buf)
	if s.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", s.Frames())
	}
	for i := range s.Left {
		if s.Left[i] != s.Right[i] {
			t.Fatalf("mono source should duplicate L/R at %d", i)
		}
	}
	if s.Left[1] <= 0 || s.Left[2] >= 0 {
		t.Fatalf("unexpected sign after scaling: %v", s.Left)
	}
}

func TestEnsureStereoTruncatesExtraChannels(t *testing.T) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 3, SampleRate: 48000},
		Data:           []int{100, 200, 300, 400, 500, 600},
		SourceBitDepth: 16,
	}
	s := ensureStereo(buf)
	if s.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", s.Frames())
	}
	if s.Left[0] == s.Right[0] {
		t.Fatalf("left and right should come from distinct source channels")
	}
}

func TestTailTruncatesLongStderr(t *testing.T) {
	s := ""
	for i := 0; i < 50; i++ {
		s += "0123456789"
	}
	got := tail(s, 100)
	if len(got) != 100 {
		t.Fatalf("expected length 100, got %d", len(got))
	}
	if got != s[len(s)-100:] {
		t.Fatalf("tail did not return the suffix")
	}
}

func TestTailShorterThanLimit(t *testing.T) {
	if tail("abc", 10) != "abc" {
		t.Fatalf("expected unchanged short string")
	}
}

// TestLoadStereoReadsNativeRateUnresampled writes a stereo WAV at a rate
// distinct from any pipeline target and checks LoadStereo returns it
// untouched, since analysis runs at the file's native rate
// (original_source/main.py's sf.read has no resample step either).
func TestLoadStereoReadsNativeRateUnresampled(t *testing.T) {
	path := t.TempDir() + "/input.wav"
	const sampleRate = 44100
	const bitDepth = 16

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 2, 1)
	data := []int{100, -200, 16384, -16384, 0, 0}
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	s, err := LoadStereo(path)
	if err != nil {
		t.Fatalf("LoadStereo failed: %v", err)
	}
	if s.SampleRate != sampleRate {
		t.Fatalf("expected native sample rate %d, got %d", sampleRate, s.SampleRate)
	}
	if s.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", s.Frames())
	}
	if s.Left[1] <= 0 || s.Right[1] >= 0 {
		t.Fatalf("unexpected sign after scaling: left=%v right=%v", s.Left[1], s.Right[1])
	}
}
