package downmix

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vantage-audio/spatialmix/internal/dsp"
	"github.com/vantage-audio/spatialmix/internal/mixer"
)

func emptyBuffer714(n int) mixer.Buffer714 {
	var b mixer.Buffer714
	for c := range b {
		b[c] = make([]float64, n)
	}
	return b
}

var _ = Describe("foldMatrix", func() {
	var input mixer.Buffer714

	BeforeEach(func() {
		input = emptyBuffer714(1)
	})

	It("routes TFL only into FL_51 at 0.5 and leaves SL_51 untouched", func() {
		input[mixer.ChTFL][0] = 1.0

		out := foldMatrix(input)

		Expect(out[ChFL51][0]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(out[ChSL51][0]).To(BeNumerically("==", 0.0))
		Expect(out[ChFR51][0]).To(BeNumerically("==", 0.0))
		Expect(out[ChFC51][0]).To(BeNumerically("==", 0.0))
		Expect(out[ChLFE51][0]).To(BeNumerically("==", 0.0))
		Expect(out[ChSR51][0]).To(BeNumerically("==", 0.0))
	})

	It("passes FC and LFE through unchanged", func() {
		input[mixer.ChFC][0] = 0.42
		input[mixer.ChLFE][0] = 0.77

		out := foldMatrix(input)

		Expect(out[ChFC51][0]).To(Equal(0.42))
		Expect(out[ChLFE51][0]).To(Equal(0.77))
	})

	It("combines SL, BL and TBL into SL_51 with ITU-R coefficients", func() {
		input[mixer.ChSL][0] = 1.0
		input[mixer.ChBL][0] = 1.0
		input[mixer.ChTBL][0] = 1.0

		out := foldMatrix(input)

		Expect(out[ChSL51][0]).To(BeNumerically("~", 1.0+0.707+0.5, 1e-12))
	})
})

var _ = Describe("Fold714To51", func() {
	It("peak-normalizes its output to -1.0 dBFS", func() {
		n := 100
		input := emptyBuffer714(n)
		for i := 0; i < n; i++ {
			input[mixer.ChFL][i] = 2.0
		}

		out := Fold714To51(input)

		peak := 0.0
		for _, ch := range out {
			for _, v := range ch {
				if v > peak {
					peak = v
				}
			}
		}
		Expect(peak).To(BeNumerically("~", dsp.DBToLinear(-1.0), 1e-9))
	})

	It("produces 6 channels of the same length as the input", func() {
		n := 250
		out := Fold714To51(emptyBuffer714(n))
		Expect(len(out)).To(Equal(NumChannels51))
		for _, ch := range out {
			Expect(len(ch)).To(Equal(n))
		}
	})
})
