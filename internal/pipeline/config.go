// Package pipeline orchestrates the full upmix: analyze -> adapt preset
// -> separate -> mix to 7.1.4 -> write WAV (+ optional 5.1 AAC
// fallback). Config follows internal/config.Config's yaml-tagged,
// Load/Save/DefaultConfig shape.
package pipeline

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vantage-audio/spatialmix/internal/muxer"
	"github.com/vantage-audio/spatialmix/internal/separator"
)

const (
	DefaultSampleRate = 48000
	DefaultQuality    = "medium"
)

// Config is the on-disk pipeline configuration consumed by cmd/upmixctl.
type Config struct {
	SeparatorModel string `yaml:"separator_model"`
	WorkDir        string `yaml:"work_dir"`
	SampleRate     int    `yaml:"sample_rate"`
	Quality        string `yaml:"quality"`
	OutputWAV714   string `yaml:"output_wav_714"`
	OutputAAC51    string `yaml:"output_aac_51"`
	WriteAACFold   bool   `yaml:"write_aac_fold"`
	AACBitrate     string `yaml:"aac_bitrate"`
	ReportDir      string `yaml:"report_dir"`
}

// DefaultConfig returns the pipeline's baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		SeparatorModel: separator.DefaultModel,
		WorkDir:        os.TempDir(),
		SampleRate:     DefaultSampleRate,
		Quality:        DefaultQuality,
		OutputWAV714:   "output_714.wav",
		OutputAAC51:    "output_51.m4a",
		WriteAACFold:   false,
		AACBitrate:     muxer.DefaultAACBitrate,
	}
}

// Load reads a yaml config file, defaulting any field it omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as yaml to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
