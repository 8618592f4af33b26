// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import "testing"

func newTestRing(t *testing.T, k uint) *historyRing {
	t.Helper()
	r, ok := acquireHistoryRing(k, defaultHistoryAllocator)
	if !ok {
		t.Fatalf("acquireHistoryRing(%d) failed", k)
	}
	t.Cleanup(func() { releaseHistoryRing(r) })
	return r
}

func TestHistoryRing_WriteAndReadChar(t *testing.T) {
	r := newTestRing(t, 3) // capacity 8
	r.write([]byte{1, 2, 3, 4})

	for i, want := range []byte{1, 2, 3, 4} {
		// write_pos is now 4; the 4 bytes just written sit at
		// ring-relative offsets [capacity-4, capacity), the range
		// right before offsets wrap back around to write_pos itself.
		got := r.readChar((r.capacity - 4 + uint32(i)) & r.mask)
		if got != want {
			t.Fatalf("readChar mismatch at i=%d: got=%d want=%d", i, got, want)
		}
	}
}

func TestHistoryRing_WriteWrapSetsFilled(t *testing.T) {
	r := newTestRing(t, 2) // capacity 4
	if r.filled {
		t.Fatal("filled should start false")
	}
	r.write([]byte{1, 2, 3, 4, 5})
	if !r.filled {
		t.Fatal("filled should be true after wrapping")
	}
	if r.writePos != 1 {
		t.Fatalf("writePos = %d, want 1", r.writePos)
	}
}

func TestHistoryRing_FindChar_VirginRegionFastPath(t *testing.T) {
	r := newTestRing(t, 4) // capacity 16, nothing written yet

	if got := r.findChar(0, 16, 0); got != 0 {
		t.Fatalf("findChar for zero byte in virgin ring = %d, want 0", got)
	}
	if got := r.findChar(0, 16, 1); got != noMatch {
		t.Fatalf("findChar for non-zero byte in virgin ring = %d, want noMatch", got)
	}
	if got := r.findChar(5, 4, 0); got != 5 {
		t.Fatalf("findChar with offset into virgin ring = %d, want 5", got)
	}
}

func TestHistoryRing_FindChar_AfterWrites(t *testing.T) {
	r := newTestRing(t, 3) // capacity 8
	r.write([]byte{9, 8, 7, 6})

	// Bytes just written sit at offsets capacity-4..capacity-1 past
	// write_pos; the tail [write_pos, write_pos+4) is still virgin zero.
	if got := r.findChar(0, uint32(r.capacity), 7); got != r.capacity-2 {
		t.Fatalf("findChar(7) = %d, want %d", got, r.capacity-2)
	}
	if got := r.findChar(0, 4, 0); got != 0 {
		t.Fatalf("findChar(0) in virgin tail = %d, want 0", got)
	}
}

func TestHistoryRing_Compare(t *testing.T) {
	r := newTestRing(t, 3) // capacity 8
	r.write([]byte{1, 2, 3, 1, 2, 3})

	first := r.capacity - 6  // offset of the first "1,2,3"
	second := r.capacity - 3 // offset of the second "1,2,3"
	if c := r.compare(first, second, 3); c != 0 {
		t.Fatalf("compare of equal windows = %d, want 0", c)
	}

	if c := r.compare(first, second+1, 2); c == 0 {
		t.Fatal("compare of differing windows should not be 0")
	}
}

func TestHistoryRing_Copy_SelfCopyAcrossWrap(t *testing.T) {
	r := newTestRing(t, 2) // capacity 4
	r.write([]byte{10, 20})

	// Copy the 2 bytes just written (offset = capacity-2) to the write
	// position, extending the buffer's logical content without an
	// external writer.
	offset := r.capacity - 2
	accepted := r.copy(nil, offset, 2)
	if accepted != 2 {
		t.Fatalf("copy accepted = %d, want 2", accepted)
	}

	got := []byte{r.readChar(r.capacity - 2), r.readChar(r.capacity - 1)}
	if got[0] != 10 || got[1] != 20 {
		t.Fatalf("self-copy produced %v, want [10 20]", got)
	}
}

func TestHistoryRing_Copy_SourceSpansPhysicalBoundary(t *testing.T) {
	r := newTestRing(t, 3) // capacity 8

	// Arrange buf so index 7 holds 'H' and, after wrapping, indices
	// 0-2 hold 'A','B','C', with write_pos left at 6: a source range
	// of offset=1, n=4 then reads physical indices 7,0,1,2 in that
	// order, crossing the end of the backing array mid-copy.
	r.write([]byte{0, 0, 0, 0, 0, 0, 0, 'H'})
	r.write([]byte{'A', 'B', 'C', 0, 0, 0})
	if r.writePos != 6 {
		t.Fatalf("writePos = %d, want 6", r.writePos)
	}

	accepted := r.copy(nil, 1, 4)
	if accepted != 4 {
		t.Fatalf("copy accepted = %d, want 4", accepted)
	}

	want := []byte{'H', 'A', 'B', 'C'}
	for i, w := range want {
		got := r.readChar(r.capacity - 4 + uint32(i))
		if got != w {
			t.Fatalf("byte %d = %q, want %q (copy read the wrong physical range mid-call)", i, got, w)
		}
	}
}

type truncatingWriter struct{ limit int }

func (w *truncatingWriter) writeRange(p []byte) int {
	n := len(p)
	if n > w.limit {
		n = w.limit
	}
	w.limit -= n
	return n
}

func TestHistoryRing_Copy_TruncatingWriter(t *testing.T) {
	r := newTestRing(t, 3) // capacity 8
	r.write([]byte{1, 2, 3, 4})

	w := &truncatingWriter{limit: 2}
	accepted := r.copy(w, r.capacity-4, 4)
	if accepted != 2 {
		t.Fatalf("copy with truncating writer accepted = %d, want 2", accepted)
	}
}

func TestHistoryRing_Reset(t *testing.T) {
	r := newTestRing(t, 3)
	r.write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if !r.filled {
		t.Fatal("expected filled after wrap")
	}

	r.reset()
	if r.filled || r.writePos != 0 {
		t.Fatalf("reset left filled=%v writePos=%d, want false/0", r.filled, r.writePos)
	}
	for i, b := range r.buf {
		if b != 0 {
			t.Fatalf("reset left non-zero byte at %d: %d", i, b)
		}
	}
}

func TestAcquireHistoryRing_AllocatorFailure(t *testing.T) {
	failingAlloc := func(int) ([]byte, bool) { return nil, false }
	_, ok := acquireHistoryRing(9, failingAlloc)
	if ok {
		t.Fatal("expected acquireHistoryRing to fail when allocator fails")
	}
}
