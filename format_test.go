// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import "testing"

func TestSizeBits(t *testing.T) {
	cases := []struct {
		name       string
		k          uint
		readOffset uint32
		want       uint
	}{
		{name: "k=0 always k", k: 0, readOffset: 0, want: 0},
		{name: "k=9 lower half", k: 9, readOffset: 255, want: 9},
		{name: "k=9 boundary offset uses k-1", k: 9, readOffset: 256, want: 8},
		{name: "k=9 upper half", k: 9, readOffset: 511, want: 8},
		{name: "k=1 lower half", k: 1, readOffset: 0, want: 1},
		{name: "k=1 upper half", k: 1, readOffset: 1, want: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := sizeBits(c.k, c.readOffset)
			if got != c.want {
				t.Fatalf("sizeBits(%d, %d) = %d, want %d", c.k, c.readOffset, got, c.want)
			}
		})
	}
}

// TestSizeBits_QuirkIsGreaterOrEqual pins down the >= (not >) boundary
// called out as an authentic format quirk: offset 256 already drops to
// k-1 bits, not just offset 257 and beyond.
func TestSizeBits_QuirkIsGreaterOrEqual(t *testing.T) {
	half := uint32(1) << 8 // 1 << (k-1) for k=9
	if got := sizeBits(9, half-1); got != 9 {
		t.Fatalf("sizeBits(9, %d) = %d, want 9", half-1, got)
	}
	if got := sizeBits(9, half); got != 8 {
		t.Fatalf("sizeBits(9, %d) = %d, want 8 (quirk boundary)", half, got)
	}
}
