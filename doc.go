// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

/*
Package gkey implements the Gordon Key ("Fednet") bit-packed back-reference
codec used by Acorn Archimedes-era game data. Each token is one type bit
followed by either an 8-bit literal or a history offset and length; offsets
and lengths are measured against a fixed-size ring of recently
(de)compressed bytes, 1<<k bytes wide.

Both directions are suspendable: a Decode or Encode call may return with
StatusBufferOverflow (output room exhausted) or, for Encode, StatusOK
(input exhausted mid-search), and resumes bit-for-bit where it left off
once called again with more room or input.

# Decompress

	dec, err := gkey.NewDecoder(gkey.DefaultDecodeOptions(9))
	defer dec.Close()

	p := &gkey.Params{In: compressed, Out: dst}
	for {
		switch dec.Decode(p) {
		case gkey.StatusFinished:
			return
		case gkey.StatusBufferOverflow:
			// dst is full; drain it and re-enter with more room.
		case gkey.StatusTruncatedInput:
			// wait for more compressed bytes, then re-enter.
		}
	}

For a one-shot call over an in-memory buffer:

	out, err := gkey.Decompress(compressed, gkey.DefaultDecodeOptions(9))

# Compress

	enc, err := gkey.NewEncoder(gkey.DefaultEncodeOptions(9))
	defer enc.Close()

	p := &gkey.Params{In: data, Out: dst}
	status := enc.Encode(p)
	// call again with p.In empty to flush once data is exhausted

Or, as a one-shot call:

	out, err := gkey.Compress(data, gkey.DefaultEncodeOptions(9))
*/
package gkey
