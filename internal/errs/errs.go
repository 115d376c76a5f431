// Package errs defines the sentinel errors for the pipeline's collaborator
// boundary (separator, muxer, ingest) per spec.md §7's error-kind table.
// The DSP core itself has no recoverable error conditions — silence, NaN
// and all-zero buffers pass straight through.
package errs

import "errors"

var (
	// ErrInputUnreadable: the input file could not be read. Fatal for
	// that track; batch mode reports and continues.
	ErrInputUnreadable = errors.New("spatialmix: input file unreadable")

	// ErrSeparatorFailed: the stem-separation child process exited
	// non-zero. Fatal for that track.
	ErrSeparatorFailed = errors.New("spatialmix: stem separation failed")

	// ErrMissingStem: an expected stem file was not produced.
	ErrMissingStem = errors.New("spatialmix: missing stem file")

	// ErrResampleFailed: sample-rate conversion on ingest failed.
	ErrResampleFailed = errors.New("spatialmix: sample-rate conversion failed")

	// ErrInvalidPreset: an invalid preset key or out-of-range gain was
	// supplied at construction time.
	ErrInvalidPreset = errors.New("spatialmix: invalid preset")

	// ErrMuxerTagFailed: the muxer could not stamp channel-layout
	// metadata. Recovered locally — the untagged output is still
	// delivered.
	ErrMuxerTagFailed = errors.New("spatialmix: muxer channel-layout tagging failed")

	// ErrMuxerEncodeFailed: the muxer failed to encode a given output
	// format. Fatal for that output format only.
	ErrMuxerEncodeFailed = errors.New("spatialmix: muxer encoding failed")
)

// TrackError wraps an error with the input path that triggered it, so
// batch-mode callers can report and continue without losing context.
type TrackError struct {
	Path    string
	Wrapped error
}

func (e *TrackError) Error() string {
	return e.Path + ": " + e.Wrapped.Error()
}

func (e *TrackError) Unwrap() error {
	return e.Wrapped
}
