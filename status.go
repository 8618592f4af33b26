// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// Status reports the outcome of one Decoder or Encoder step. It is
// distinct from the Go error type: it is the codec's own result taxonomy,
// not a wrapped Go error, matching the reference implementation's status
// enum rather than an idiomatic error chain — callers branch on Status
// to decide whether and how to resume.
type Status int

const (
	// StatusOK means progress was possible; the caller should re-enter
	// with more input and/or output room.
	StatusOK Status = iota
	// StatusBadInput means the decoder found malformed compressed data.
	// Unrecoverable on this stream without Reset.
	StatusBadInput
	// StatusTruncatedInput means the bit stream ended mid-token with a
	// non-zero accumulator residue. Recoverable if more input follows.
	StatusTruncatedInput
	// StatusBufferOverflow means the output window was exhausted. State
	// is preserved at bit granularity; re-enter with more output room.
	StatusBufferOverflow
	// StatusAborted means the progress callback vetoed continuation.
	// Unrecoverable without Reset.
	StatusAborted
	// StatusFinished means the stream is complete. Sticky: further calls
	// on this instance must be rejected (or ignored, for the decoder)
	// until Reset.
	StatusFinished
)

// String returns a short name for s, primarily useful in logs and test
// failure messages.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadInput:
		return "BadInput"
	case StatusTruncatedInput:
		return "TruncatedInput"
	case StatusBufferOverflow:
		return "BufferOverflow"
	case StatusAborted:
		return "Aborted"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// GetStatusString returns a string representation of status, mirroring
// the reference implementation's GKey_get_status_str debugging aid.
func GetStatusString(status Status) string {
	return status.String()
}
