// Package report persists per-track run metadata and measurement
// history to disk, so a batch run can be audited after the fact.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vantage-audio/spatialmix/internal/analyzer"
	"github.com/vantage-audio/spatialmix/internal/preset"
)

// Store writes run reports under baseDir, one subdirectory per track.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the store's base directory if it does not exist.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata records one track's measurement and the preset values
// actually applied after adaptation.
type RunMetadata struct {
	ID          string             `json:"id"`
	Input       string             `json:"input"`
	Timestamp   time.Time          `json:"timestamp"`
	SampleRate  int                `json:"sample_rate"`
	Quality     string             `json:"quality"`
	Measurement analyzer.Measurement `json:"measurement"`
	Applied     preset.Preset      `json:"applied_preset"`
	WAV714Path  string             `json:"wav714_path"`
	AAC51Path   string             `json:"aac51_path,omitempty"`
}

// Save writes a run's metadata as JSON and its measurement as a single
// CSV row (for accumulating one spreadsheet across a batch run).
func (s *Store) Save(input string, sampleRate int, quality string, meas analyzer.Measurement, applied preset.Preset, wavPath, aacPath string) (string, error) {
	runID := fmt.Sprintf("%s_%d", sanitize(filepath.Base(input)), time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Input:       input,
		Timestamp:   time.Now(),
		SampleRate:  sampleRate,
		Quality:     quality,
		Measurement: meas,
		Applied:     applied,
		WAV714Path:  wavPath,
		AAC51Path:   aacPath,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.appendMeasurementCSV(input, meas); err != nil {
		return runID, err
	}
	return runID, nil
}

// appendMeasurementCSV appends one row to baseDir/measurements.csv,
// writing the header first if the file does not yet exist.
func (s *Store) appendMeasurementCSV(input string, meas analyzer.Measurement) error {
	csvPath := filepath.Join(s.baseDir, "measurements.csv")
	_, statErr := os.Stat(csvPath)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if needsHeader {
		if err := w.Write([]string{"input", "spectral_centroid_hz", "bass_energy_ratio", "transient_density", "stereo_width", "dynamic_range_db", "rms_dbfs"}); err != nil {
			return err
		}
	}

	row := []string{
		input,
		strconv.FormatFloat(meas.SpectralCentroidHz, 'f', 2, 64),
		strconv.FormatFloat(meas.BassEnergyRatio, 'f', 4, 64),
		strconv.FormatFloat(meas.TransientDensity, 'f', 4, 64),
		strconv.FormatFloat(meas.StereoWidth, 'f', 4, 64),
		strconv.FormatFloat(meas.DynamicRangeDB, 'f', 2, 64),
		strconv.FormatFloat(meas.RMSDBFS, 'f', 2, 64),
	}
	return w.Write(row)
}

// List returns every run's metadata found under baseDir.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load reads a single run's metadata by ID.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func sanitize(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
