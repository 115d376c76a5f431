package dsp

import "math/big"

// Resample converts x from sampleRate to targetRate using polyphase
// resampling: upsample by the reduced ratio's numerator (zero-stuffing),
// lowpass at the lower of the source and target Nyquist frequencies to
// kill imaging and aliasing, then decimate by the denominator. The anti-imaging filter reuses the same windowed-sinc
// design as Crossover, so resampling inherits its linear-phase guarantee.
func Resample(x []float64, sampleRate, targetRate int) []float64 {
	if sampleRate == targetRate || len(x) == 0 {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	up, down := reducedRatio(sampleRate, targetRate)

	upsampled := make([]float64, len(x)*up)
	for i, v := range x {
		upsampled[i*up] = v
	}

	nyquist := float64(min(sampleRate, targetRate)) / 2.0
	numTaps := 127
	filter := windowedSincLowpass(nyquist*0.9, float64(sampleRate*up), numTaps)
	// Polyphase gain compensation: zero-stuffing attenuates by 1/up.
	for i := range filter {
		filter[i] *= float64(up)
	}
	filtered := convolveTruncated(upsampled, filter)

	outLen := (len(filtered) + down - 1) / down
	out := make([]float64, outLen)
	for i := range out {
		idx := i * down
		if idx < len(filtered) {
			out[i] = filtered[idx]
		}
	}
	return out
}

// reducedRatio reduces sampleRate:targetRate to lowest terms via
// math/big's GCD, per SPEC_FULL.md's domain-stack table.
func reducedRatio(a, b int) (up, down int) {
	g := new(big.Int).GCD(nil, nil, big.NewInt(int64(a)), big.NewInt(int64(b)))
	gi := int(g.Int64())
	return b / gi, a / gi
}
