package mixer

// Channel indices for the fixed 7.1.4 layout (12 channels).
const (
	ChFL = iota
	ChFR
	ChFC
	ChLFE
	ChBL
	ChBR
	ChSL
	ChSR
	ChTFL
	ChTFR
	ChTBL
	ChTBR
	NumChannels714
)

// ChannelNames714 names each of the 12 channels in index order.
var ChannelNames714 = [NumChannels714]string{
	"FL", "FR", "FC", "LFE", "BL", "BR", "SL", "SR", "TFL", "TFR", "TBL", "TBR",
}

// Decorrelator bank role indices: 0-3 map to SL/SR/BL/BR, 4-7 to
// TFL/TFR/TBL/TBR, per spec.md §4.4's build phase.
const (
	DSL = iota
	DSR
	DBL
	DBR
	DTFL
	DTFR
	DTBL
	DTBR
	NumDecorrChannels
)
