// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// Logger is the construction-time debug-log seam: there is no
// process-wide debug switch, so instances opt into logging by injecting
// one of these instead. The zero value of DecodeOptions/EncodeOptions
// uses a no-op logger.
type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// HistoryAllocator allocates the byte storage backing a history ring.
// It returns ok=false to simulate allocation failure, which is the
// dependency-injection point tests use to exercise NewDecoder/NewEncoder
// failure paths without exhausting real memory.
type HistoryAllocator func(size int) (buf []byte, ok bool)

func defaultHistoryAllocator(size int) ([]byte, bool) {
	return make([]byte, size), true
}

// DecodeOptions configures a Decoder. HistoryLog2 must match the
// HistoryLog2 the data was encoded with.
type DecodeOptions struct {
	// HistoryLog2 is k: history capacity is 1<<HistoryLog2. Must be in
	// [0, 9].
	HistoryLog2 uint
	// Lenient maps a decoded copy length of 0 to 1, matching the
	// reference decompressor, instead of returning StatusBadInput. Off
	// by default — see the Open Question in DESIGN.md.
	Lenient bool
	// Logger receives debug traces, if set.
	Logger Logger
	// HistoryAllocator allocates the ring's backing storage. Defaults to
	// a plain make([]byte, size).
	HistoryAllocator HistoryAllocator
}

// DefaultDecodeOptions returns options for the given history size with
// no leniency and no logging.
func DefaultDecodeOptions(historyLog2 uint) *DecodeOptions {
	return &DecodeOptions{HistoryLog2: historyLog2}
}

func (o *DecodeOptions) logger() Logger {
	if o == nil || o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}

func (o *DecodeOptions) allocator() HistoryAllocator {
	if o == nil || o.HistoryAllocator == nil {
		return defaultHistoryAllocator
	}
	return o.HistoryAllocator
}

// EncodeOptions configures an Encoder.
type EncodeOptions struct {
	// HistoryLog2 is k: history capacity is 1<<HistoryLog2. Must be in
	// [0, 9].
	HistoryLog2 uint
	// AllowMostRecentByte disables the δ=1 rule that forbids the
	// most-recently-written byte from being used as a copy source. Off
	// by default; the canonical format keeps δ=1.
	AllowMostRecentByte bool
	// Logger receives debug traces, if set.
	Logger Logger
	// HistoryAllocator allocates the ring's backing storage. Defaults to
	// a plain make([]byte, size).
	HistoryAllocator HistoryAllocator
}

// DefaultEncodeOptions returns options for the given history size with
// the canonical δ=1 behaviour and no logging.
func DefaultEncodeOptions(historyLog2 uint) *EncodeOptions {
	return &EncodeOptions{HistoryLog2: historyLog2}
}

func (o *EncodeOptions) logger() Logger {
	if o == nil || o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}

func (o *EncodeOptions) allocator() HistoryAllocator {
	if o == nil || o.HistoryAllocator == nil {
		return defaultHistoryAllocator
	}
	return o.HistoryAllocator
}
