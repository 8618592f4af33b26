// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// sizeBits returns how many bits the wire format spends on a copy
// length, given the history log2 k and the copy's read offset. When the
// copy source lies in the upper half of the history window, the
// remaining range — and thus the maximum legal length — fits in one
// fewer bit. Using >= rather than > is an authentic format quirk: with
// k=9, a copy sourced at offset 256 uses 8 bits (range 0..255), while one
// sourced at offset 255 uses 9 bits (range 0..511) — offsets in
// [256, 511] can therefore never encode a length >= 256.
func sizeBits(k uint, readOffset uint32) uint {
	if k > 0 && uint64(readOffset) >= uint64(1)<<(k-1) {
		return k - 1
	}
	return k
}
