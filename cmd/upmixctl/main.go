package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/vantage-audio/spatialmix/internal/analyzer"
	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/mixer"
	"github.com/vantage-audio/spatialmix/internal/muxer"
	"github.com/vantage-audio/spatialmix/internal/pipeline"
	"github.com/vantage-audio/spatialmix/internal/separator"
	"github.com/vantage-audio/spatialmix/internal/tui"
)

var (
	configPath string
	quality    string
	workDir    string
	sampleRate int
	model      string
	writeAAC   bool
	aacBitrate string
	outWAV     string
	outAAC     string
	reportDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "upmixctl",
		Short: "stereo to 7.1.4 immersive spatial audio upmixer",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "pipeline config file (yaml)")

	rootCmd.AddCommand(mixCmd(), analyzeCmd(), downmixCmd(), batchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*pipeline.Config, error) {
	if configPath == "" {
		cfg := pipeline.DefaultConfig()
		applyFlags(cfg)
		return cfg, nil
	}
	cfg, err := pipeline.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	return cfg, nil
}

// applyFlags overlays any explicitly-set CLI flags on top of the loaded
// (or default) config, so a flag always wins over a config file value.
func applyFlags(cfg *pipeline.Config) {
	if quality != "" {
		cfg.Quality = quality
	}
	if workDir != "" {
		cfg.WorkDir = workDir
	}
	if sampleRate != 0 {
		cfg.SampleRate = sampleRate
	}
	if model != "" {
		cfg.SeparatorModel = model
	}
	if writeAAC {
		cfg.WriteAACFold = true
	}
	if aacBitrate != "" {
		cfg.AACBitrate = aacBitrate
	}
	if outWAV != "" {
		cfg.OutputWAV714 = outWAV
	}
	if outAAC != "" {
		cfg.OutputAAC51 = outAAC
	}
	if reportDir != "" {
		cfg.ReportDir = reportDir
	}
}

func mixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mix [input]",
		Short: "separate, analyze and upmix a stereo track to 7.1.4",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			input := args[0]

			var outcome pipeline.Outcome
			err = tui.Run(context.Background(), filepath.Base(input), func(progress dsp.ProgressFunc) error {
				var runErr error
				outcome, runErr = pipeline.Run(context.Background(), cfg, input, progress)
				return runErr
			})
			if err != nil {
				return err
			}

			fmt.Printf("measurement: %s\n", outcome.Measurement.Description)
			fmt.Printf("wav714: %s\n", outcome.WAV714Path)
			if outcome.AAC51Path != "" {
				fmt.Printf("aac51: %s\n", outcome.AAC51Path)
			}
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input]",
		Short: "report content-analysis measurements for a stereo track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadConfig()
			if err != nil {
				return err
			}

			// Analysis runs on the original input PCM directly, never on
			// separator output (spec.md's data-flow diagram; see
			// internal/pipeline.Run).
			input, err := separator.LoadStereo(args[0])
			if err != nil {
				return err
			}

			meas := analyzer.Analyze(input.Left, input.Right, input.SampleRate, nil)
			printReport(meas, input.Mono(), input.SampleRate)
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func printReport(meas analyzer.Measurement, mono []float64, sampleRate int) {
	fmt.Println(meas.Description)
	fmt.Printf("spectral centroid: %.1f Hz\n", meas.SpectralCentroidHz)
	fmt.Printf("bass energy ratio: %.2f\n", meas.BassEnergyRatio)
	fmt.Printf("transient density: %.2f\n", meas.TransientDensity)
	fmt.Printf("stereo width: %.2f\n", meas.StereoWidth)
	fmt.Printf("dynamic range: %.1f dB\n", meas.DynamicRangeDB)
	fmt.Printf("RMS: %.1f dBFS\n", meas.RMSDBFS)

	if len(mono) == 0 {
		return
	}
	window := mono
	if len(window) > sampleRate {
		window = window[:sampleRate]
	}
	graph := asciigraph.Plot(window,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("waveform (first second, mono fold)"),
	)
	fmt.Println(graph)
}

func downmixCmd() *cobra.Command {
	var inWAV string
	cmd := &cobra.Command{
		Use:   "downmix",
		Short: "fold an existing 7.1.4 WAV down to 5.1 AAC",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if inWAV == "" {
				return fmt.Errorf("downmix: --in is required")
			}

			res, err := readWAV714(inWAV)
			if err != nil {
				return err
			}

			path, err := muxer.WriteAAC51(context.Background(), res, cfg.OutputAAC51, cfg.AACBitrate, func(msg string) { fmt.Println(msg) })
			if err != nil {
				return err
			}
			fmt.Printf("aac51: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&inWAV, "in", "", "path to an existing 7.1.4 WAV")
	addCommonFlags(cmd)
	return cmd
}

// readWAV714 reads a 12-channel 7.1.4 WAV written by 'mix' back into a
// mixer.Result, for standalone re-fold via 'downmix'.
func readWAV714(path string) (mixer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return mixer.Result{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return mixer.Result{}, fmt.Errorf("downmix: %s is not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return mixer.Result{}, err
	}
	if buf.Format.NumChannels != mixer.NumChannels714 {
		return mixer.Result{}, fmt.Errorf("downmix: expected %d channels, got %d", mixer.NumChannels714, buf.Format.NumChannels)
	}

	n := len(buf.Data) / mixer.NumChannels714
	full := 1 << (buf.SourceBitDepth - 1)
	scale := 1.0 / float64(full)

	var out mixer.Buffer714
	for c := range out {
		out[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < mixer.NumChannels714; c++ {
			out[c][i] = float64(buf.Data[i*mixer.NumChannels714+c]) * scale
		}
	}
	return mixer.Result{Audio: out, SampleRate: buf.Format.SampleRate}, nil
}

func batchCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "mix every track in a directory, continuing past per-track failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}

			var failures []string
			tracks := 0
			for _, e := range entries {
				if e.IsDir() || !isAudioFile(e.Name()) {
					continue
				}
				tracks++
				input := filepath.Join(dir, e.Name())
				trackCfg := *cfg
				trackCfg.OutputWAV714 = filepath.Join(dir, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))+"_714.wav")
				trackCfg.OutputAAC51 = filepath.Join(dir, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))+"_51.m4a")

				fmt.Printf("[%s] mixing...\n", e.Name())
				if _, err := pipeline.Run(context.Background(), &trackCfg, input, nil); err != nil {
					fmt.Printf("[%s] failed: %v\n", e.Name(), err)
					failures = append(failures, e.Name())
					continue
				}
				fmt.Printf("[%s] done.\n", e.Name())
			}

			// Batch mode never cross-normalizes between tracks: each
			// pipeline.Run call peak-normalizes independently.
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d tracks failed: %s", len(failures), tracks, strings.Join(failures, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory of input tracks")
	addCommonFlags(cmd)
	return cmd
}

func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".wav" || ext == ".flac" || ext == ".mp3" || ext == ".m4a"
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&quality, "quality", "", "preset quality: low, medium, high")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "separator working directory")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", 0, "target sample rate")
	cmd.Flags().StringVar(&model, "model", "", "demucs model name")
	cmd.Flags().BoolVar(&writeAAC, "write-aac", false, "also write a 5.1 AAC fallback")
	cmd.Flags().StringVar(&aacBitrate, "aac-bitrate", "", "AAC bitrate, e.g. "+muxer.DefaultAACBitrate)
	cmd.Flags().StringVar(&outWAV, "out-wav", "", "output path for the 7.1.4 WAV")
	cmd.Flags().StringVar(&outAAC, "out-aac", "", "output path for the 5.1 AAC")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory to record per-run metadata and a measurements.csv")
}
