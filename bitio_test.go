// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import "testing"

func TestBitAccumulator_WriteReadRoundTrip(t *testing.T) {
	var w bitAccumulator
	out := make([]byte, 0, 16)
	p := &Params{Out: out[:cap(out)]}

	fields := []struct{ n uint; v uint32 }{
		{1, 1}, {9, 255}, {3, 5}, {8, 0xAB},
	}
	for _, f := range fields {
		if _, ok := w.writeBits(f.n, f.v, p); !ok {
			t.Fatalf("writeBits(%d, %d) overflowed unexpectedly", f.n, f.v)
		}
	}
	if _, ok := w.flush(p); !ok {
		t.Fatal("flush overflowed unexpectedly")
	}

	written := out[:cap(out)-len(p.Out)]

	var r bitAccumulator
	rp := &Params{In: written}
	for _, f := range fields {
		got, _, ok := r.readBits(f.n, rp)
		if !ok {
			t.Fatalf("readBits(%d) ran out of input", f.n)
		}
		if got != f.v {
			t.Fatalf("readBits(%d) = %d, want %d", f.n, got, f.v)
		}
	}
}

func TestBitAccumulator_ReadBits_PartialProgressPersists(t *testing.T) {
	var r bitAccumulator
	p := &Params{In: []byte{0xFF}}

	if _, _, ok := r.readBits(16, p); ok {
		t.Fatal("expected short read to fail")
	}
	if len(p.In) != 0 {
		t.Fatalf("readBits should have consumed the only available byte, In has %d left", len(p.In))
	}
	if r.nbits != 8 {
		t.Fatalf("accumulator should retain the 8 bits pulled, nbits=%d", r.nbits)
	}

	p.In = []byte{0x00}
	v, pulled, ok := r.readBits(16, p)
	if !ok {
		t.Fatal("resumed readBits should succeed once more input arrives")
	}
	if pulled != 1 {
		t.Fatalf("pulled = %d, want 1", pulled)
	}
	if v != 0x00FF {
		t.Fatalf("v = 0x%x, want 0x00ff", v)
	}
}

func TestBitAccumulator_WriteBits_OverflowPreservesValue(t *testing.T) {
	var w bitAccumulator
	p := &Params{Out: make([]byte, 1)}

	if _, ok := w.writeBits(9, 0x1AB, p); !ok {
		t.Fatal("first writeBits should succeed against an empty accumulator")
	}
	if len(p.Out) != 1 {
		t.Fatalf("first writeBits should not have drained yet, Out has %d bytes left", len(p.Out))
	}

	p.Out = nil
	accBefore, nbitsBefore := w.acc, w.nbits
	if _, ok := w.writeBits(9, 0x55, p); ok {
		t.Fatal("writeBits should fail when draining the pending byte has no output room")
	}
	if w.acc != accBefore || w.nbits != nbitsBefore {
		t.Fatal("a failed writeBits must not mutate the accumulator")
	}
}

func TestBitAccumulator_Flush_PadsToByteBoundary(t *testing.T) {
	var w bitAccumulator
	out := make([]byte, 1)
	p := &Params{Out: out}

	if _, ok := w.writeBits(3, 0b101, p); !ok {
		t.Fatal("writeBits failed unexpectedly")
	}
	drained, ok := w.flush(p)
	if !ok {
		t.Fatal("flush failed unexpectedly")
	}
	if drained != 1 {
		t.Fatalf("flush drained %d bytes, want 1", drained)
	}
	if out[0] != 0b101 {
		t.Fatalf("flushed byte = 0x%x, want 0x05 (zero-padded)", out[0])
	}
}
