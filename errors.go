// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import "errors"

// Sentinel errors for precondition violations. These are programmer
// errors — null handles, an out-of-range history log2 — kept separate
// from Status, which covers stream-level outcomes instead. ErrNilHandle
// and ErrBadHistoryLog2 are raised via panic rather than returned, per
// the precondition contracts documented on each function; ErrAllocFailed
// is the one returned error. They are named here so callers can
// recognise them with errors.Is/errors.As when recovering from a panic
// at a trust boundary.
var (
	// ErrNilHandle is raised when Decode, Encode or Reset is called on a
	// nil Decoder or Encoder. Close tolerates a nil receiver.
	ErrNilHandle = errors.New("gkey: nil handle")
	// ErrBadHistoryLog2 is raised when HistoryLog2 is outside [0, 9].
	ErrBadHistoryLog2 = errors.New("gkey: history_log_2 out of range [0,9]")
	// ErrAllocFailed is returned (not panicked) by NewDecoder/NewEncoder
	// when the configured HistoryAllocator reports failure.
	ErrAllocFailed = errors.New("gkey: allocation failed")
)
