// Package analyzer extracts a deterministic measurement record from a
// stereo or mono audio buffer, used by package preset to adapt mix
// parameters to the program material. There are no recoverable error
// conditions: zero-length input returns zeroed/default measurements.
package analyzer

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/vantage-audio/spatialmix/internal/dsp"
)

// Measurement is the named set of fields the analyzer produces.
type Measurement struct {
	SpectralCentroidHz float64 // non-negative
	BassEnergyRatio    float64 // [0,1]: energy below 250 Hz / total
	TransientDensity   float64 // [0,1]
	StereoWidth        float64 // [0,1]: 1 - |corr(L,R)|
	DynamicRangeDB     float64
	RMSDBFS            float64 // non-positive
	Description        string
}

const (
	bassCutoffHz  = 250.0
	transientFrDB = 6.0
	frameMs       = 10.0
)

// Analyze computes a Measurement from a stereo buffer at sampleRate. If
// right is nil, the input is treated as mono (left is the only channel).
func Analyze(left, right []float64, sampleRate int, progress dsp.ProgressFunc) Measurement {
	if progress != nil {
		progress("Analyzing program material...")
	}

	mono := left
	isStereo := right != nil
	if isStereo {
		mono = dsp.ToMono(left, right)
	}

	if len(mono) == 0 {
		return Measurement{Description: describe(0, 0, 0.5, 0)}
	}

	centroid, bassRatio := spectralFeatures(mono, sampleRate)
	transientDensity, dynamicRange := transientAndDynamicRange(mono, sampleRate)
	width := stereoWidth(left, right, isStereo)
	rms := rmsOf(mono)
	rmsDBFS := dsp.LinearToDB(rms)

	return Measurement{
		SpectralCentroidHz: centroid,
		BassEnergyRatio:    bassRatio,
		TransientDensity:   transientDensity,
		StereoWidth:        width,
		DynamicRangeDB:     dynamicRange,
		RMSDBFS:            rmsDBFS,
		Description:        describe(centroid, bassRatio, transientDensity, width),
	}
}

// spectralFeatures computes the time-mean spectral centroid and the bass
// energy ratio over a sequence of Hann-windowed, 50%-overlapped STFT
// frames of length min(4096, len(mono)), zero-padded to the next power of
// two for the FFT.
func spectralFeatures(mono []float64, sampleRate int) (centroidHz, bassRatio float64) {
	nperseg := 4096
	if len(mono) < nperseg {
		nperseg = len(mono)
	}
	if nperseg == 0 {
		return 0, 0
	}
	nfft := nextPow2(nperseg)
	hop := nperseg / 2
	if hop == 0 {
		hop = nperseg
	}

	window := hannWindow(nperseg)
	freqs := make([]float64, nfft/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(nfft)
	}

	var centroidSum float64
	var frameCount int
	var bassEnergy, totalEnergy float64

	for start := 0; start < len(mono); start += hop {
		end := start + nperseg
		if end > len(mono) {
			end = len(mono)
		}

		frame := make([]float64, nfft)
		for i := start; i < end; i++ {
			frame[i-start] = mono[i] * window[i-start]
		}

		spectrum := fft.FFTReal(frame)
		mags := make([]float64, nfft/2+1)
		for k := range mags {
			mags[k] = cabs(spectrum[k])
		}

		var magSum, weighted float64
		for k, m := range mags {
			weighted += freqs[k] * m
			magSum += m
			e := m * m
			totalEnergy += e
			if freqs[k] < bassCutoffHz {
				bassEnergy += e
			}
		}
		centroidSum += weighted / (magSum + 1e-12)
		frameCount++

		if end == len(mono) {
			break
		}
	}

	if frameCount > 0 {
		centroidHz = centroidSum / float64(frameCount)
	}
	bassRatio = bassEnergy / (totalEnergy + 1e-12)
	return centroidHz, bassRatio
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// transientAndDynamicRange splits mono into non-overlapping 10ms frames
// and measures per-frame energy in dB. Transient density counts frames
// whose energy jumps more than 6 dB from the previous frame; dynamic
// range is the 95th-percentile-minus-10th-percentile energy using
// floor-index ordinal ranks, matching the reference implementation's
// bit-reproducible (non-interpolated) percentile choice.
func transientAndDynamicRange(mono []float64, sampleRate int) (density, dynamicRange float64) {
	frameLen := int(frameMs / 1000.0 * float64(sampleRate))
	if frameLen <= 0 {
		frameLen = 1
	}
	nFrames := len(mono) / frameLen
	if nFrames < 2 {
		return 0.5, 20.0
	}

	energyDB := make([]float64, nFrames)
	for f := 0; f < nFrames; f++ {
		var e float64
		for i := f * frameLen; i < (f+1)*frameLen; i++ {
			e += mono[i] * mono[i]
		}
		energyDB[f] = 10.0 * math.Log10(e+1e-12)
	}

	transients := 0
	for f := 1; f < nFrames; f++ {
		if energyDB[f]-energyDB[f-1] > transientFrDB {
			transients++
		}
	}
	density = clamp01(float64(transients) / float64(nFrames))

	sorted := make([]float64, nFrames)
	copy(sorted, energyDB)
	sortFloat64s(sorted)

	idxHi := int(0.95 * float64(nFrames))
	idxLo := int(0.10 * float64(nFrames))
	if idxHi >= nFrames {
		idxHi = nFrames - 1
	}
	dynamicRange = sorted[idxHi] - sorted[idxLo]
	return density, dynamicRange
}

func sortFloat64s(a []float64) {
	// Plain ascending insertion sort (O(n^2)), written out here instead of
	// importing package sort; the slice holds one entry per 10ms frame.
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// stereoWidth is 1 - |Pearson correlation(left, right)|. Mono input
// yields 0.
func stereoWidth(left, right []float64, isStereo bool) float64 {
	if !isStereo || len(left) == 0 {
		return 0
	}
	corr := pearsonCorrelation(left, right)
	return clamp01(1 - math.Abs(corr))
}

func pearsonCorrelation(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 1
	}
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := math.Sqrt(varA * varB)
	if denom < 1e-12 {
		return 1
	}
	return cov / denom
}

func rmsOf(mono []float64) float64 {
	if len(mono) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range mono {
		sumSq += v * v
	}
	return math.Sqrt(sumSq / float64(len(mono)))
}

// describe builds the deterministic textual summary from spec.md §4.2
// step 7.
func describe(centroidHz, bassRatio, transientDensity, width float64) string {
	var brightness string
	switch {
	case centroidHz > 3000:
		brightness = "bright"
	case centroidHz < 1500:
		brightness = "warm"
	default:
		brightness = "balanced"
	}

	var bass string
	switch {
	case bassRatio > 0.35:
		bass = "bass-heavy"
	case bassRatio < 0.15:
		bass = "light-bass"
	default:
		bass = "moderate-bass"
	}

	transients := "smooth"
	if transientDensity > 0.15 {
		transients = "transient-rich"
	}

	var widthLabel string
	switch {
	case width > 0.4:
		widthLabel = "wide-stereo"
	case width < 0.15:
		widthLabel = "narrow"
	default:
		widthLabel = "moderate-width"
	}

	return fmt.Sprintf("%s, %s, %s, %s", brightness, bass, transients, widthLabel)
}
