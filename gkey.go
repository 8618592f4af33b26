// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import "errors"

// ErrMalformedStream and ErrTruncatedStream are returned by Decompress,
// not by the lower-level Decoder (which reports the same outcomes as a
// Status instead). They exist because a one-shot call has no way to
// hand the caller a resumable state machine to retry against.
var (
	ErrMalformedStream = errors.New("gkey: malformed compressed stream")
	ErrTruncatedStream = errors.New("gkey: truncated compressed stream")
)

// initialBufferSize is the starting guess for Compress/Decompress's
// growth loop. The wire format gives no a priori bound on the output
// size of either direction, unlike the teacher's LZO1X (which sizes
// decompression output from a caller-supplied OutLen), so both
// wrappers below grow a buffer on StatusBufferOverflow instead.
const initialBufferSize = 4096

// Compress returns the Gordon Key encoding of src. opts may be nil to
// use DefaultEncodeOptions(9).
func Compress(src []byte, opts *EncodeOptions) ([]byte, error) {
	enc, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	out := make([]byte, 0, initialBufferSize)
	in := src

	for {
		var status Status
		out, in, status = runStep(out, in, func(p *Params) Status { return enc.Encode(p) })
		switch status {
		case StatusBufferOverflow:
			out = growBuffer(out)
			continue
		case StatusFinished:
			return out, nil
		case StatusOK:
			// findSequence stalled for lack of input: in is now empty,
			// and the next call latches flush, forcing the pending
			// sequence closed and the accumulator drained.
			continue
		default:
			panic("gkey: encoder reported unexpected status " + status.String())
		}
	}
}

// Decompress returns the Gordon Key decoding of src. opts may be nil to
// use DefaultDecodeOptions(9).
func Decompress(src []byte, opts *DecodeOptions) ([]byte, error) {
	dec, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out := make([]byte, 0, initialBufferSize)
	in := src

	for {
		var status Status
		out, in, status = runStep(out, in, func(p *Params) Status { return dec.Decode(p) })
		switch status {
		case StatusBufferOverflow:
			out = growBuffer(out)
			continue
		case StatusFinished:
			return out, nil
		case StatusTruncatedInput:
			return nil, ErrTruncatedStream
		case StatusBadInput:
			return nil, ErrMalformedStream
		default:
			panic("gkey: decoder reported unexpected status " + status.String())
		}
	}
}

// runStep drives one codec step against the free tail of out's backing
// array, appending whatever got written, and returns the advanced out,
// the remaining unconsumed in, and the step's status.
func runStep(out, in []byte, step func(*Params) Status) ([]byte, []byte, Status) {
	free := cap(out) - len(out)
	p := &Params{In: in, Out: out[len(out) : len(out)+free]}
	status := step(p)
	written := free - len(p.Out)
	return out[:len(out)+written], p.In, status
}

func growBuffer(b []byte) []byte {
	grown := make([]byte, len(b), cap(b)*2)
	copy(grown, b)
	return grown
}
