// Package downmix folds a 12-channel 7.1.4 buffer down to 6-channel 5.1
// using the fixed ITU-R BS.775 coefficient matrix.
package downmix

import (
	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/mixer"
)

// Channel indices for the 5.1 layout.
const (
	ChFL51 = iota
	ChFR51
	ChFC51
	ChLFE51
	ChSL51
	ChSR51
	NumChannels51
)

const targetPeakDBFS = -1.0

// Buffer51 is a 6-channel audio buffer.
type Buffer51 [NumChannels51][]float64

// Fold714To51 folds a 7.1.4 buffer to 5.1 per the fixed ITU-R BS.775
// matrix, then peak-normalizes the result to -1.0 dBFS.
func Fold714To51(in mixer.Buffer714) Buffer51 {
	out := foldMatrix(in)
	normalized := dsp.PeakNormalize(out[:], targetPeakDBFS)
	var final Buffer51
	copy(final[:], normalized)
	return final
}

// foldMatrix applies the fixed ITU-R BS.775 coefficients without any
// normalization, so its output can be checked directly against the
// matrix's literal coefficients.
func foldMatrix(in mixer.Buffer714) Buffer51 {
	n := len(in[mixer.ChFL])
	out := Buffer51{}
	for c := range out {
		out[c] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		out[ChFL51][i] = in[mixer.ChFL][i] +
			0.707*in[mixer.ChSL][i] +
			0.500*in[mixer.ChBL][i] +
			0.500*in[mixer.ChTFL][i] +
			0.350*in[mixer.ChTBL][i]

		out[ChFR51][i] = in[mixer.ChFR][i] +
			0.707*in[mixer.ChSR][i] +
			0.500*in[mixer.ChBR][i] +
			0.500*in[mixer.ChTFR][i] +
			0.350*in[mixer.ChTBR][i]

		out[ChFC51][i] = in[mixer.ChFC][i]
		out[ChLFE51][i] = in[mixer.ChLFE][i]

		out[ChSL51][i] = in[mixer.ChSL][i] +
			0.707*in[mixer.ChBL][i] +
			0.500*in[mixer.ChTBL][i]

		out[ChSR51][i] = in[mixer.ChSR][i] +
			0.707*in[mixer.ChBR][i] +
			0.500*in[mixer.ChTBR][i]
	}
	return out
}
