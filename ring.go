// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

import (
	"bytes"
	"sync"
)

// noMatch is the find_char sentinel meaning "byte not found in range".
const noMatch = ^uint32(0)

// ringWriter is the extension point ring.copy uses to splice a self-copy
// with an external sink. It is deliberately not a general callback type:
// the format only ever needs two concrete strategies (the decoder's
// output-window writer and the encoder's bit-stream literal-run writer),
// so both satisfy this tiny interface instead of each allocating a closure.
type ringWriter interface {
	// writeRange offers p for emission and reports how many leading bytes
	// were accepted. Returning less than len(p) truncates the ring copy.
	writeRange(p []byte) int
}

// historyRing is the fixed-capacity circular history buffer shared by the
// encoder and decoder. Capacity is always a power of two; k is fixed for
// the life of the ring and matches between encoder and decoder.
type historyRing struct {
	buf      []byte
	capacity uint32
	mask     uint32
	writePos uint32
	filled   bool
}

var historyRingPool = sync.Pool{
	New: func() any { return new(historyRing) },
}

// acquireHistoryRing gets a ring struct from the pool, backs it with
// storage from alloc and initialises it for capacity 1<<k. alloc is
// called on every acquire, so ok is false, with the ring returned to the
// pool untouched, whenever alloc reports failure.
func acquireHistoryRing(k uint, alloc HistoryAllocator) (*historyRing, bool) {
	r := historyRingPool.Get().(*historyRing)
	capacity := uint32(1) << k
	buf, ok := alloc(int(capacity))
	if !ok {
		historyRingPool.Put(r)
		return nil, false
	}
	r.buf = buf[:capacity]
	r.capacity = capacity
	r.mask = capacity - 1
	r.reset()
	return r, true
}

// releaseHistoryRing returns a ring to the pool. It tolerates nil.
func releaseHistoryRing(r *historyRing) {
	if r == nil {
		return
	}
	historyRingPool.Put(r)
}

// reset restores zero content, write_pos=0, filled=false — the zero-init
// invariant findChar's virgin-region shortcut depends on.
func (r *historyRing) reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
	r.writePos = 0
	r.filled = false
}

// write appends n bytes, wrapping modulo capacity. Any wrap sets filled.
func (r *historyRing) write(src []byte) {
	for len(src) > 0 {
		space := r.capacity - r.writePos
		chunk := uint32(len(src))
		if chunk > space {
			chunk = space
		}
		copy(r.buf[r.writePos:r.writePos+chunk], src[:chunk])
		src = src[chunk:]
		r.writePos += chunk
		if r.writePos == r.capacity {
			r.writePos = 0
			r.filled = true
		}
	}
}

// readChar returns the byte at offset past the write position. offset must
// be < capacity.
func (r *historyRing) readChar(offset uint32) byte {
	return r.buf[(r.writePos+offset)&r.mask]
}

// copy self-copies n bytes starting offset past the write position to the
// current write position, splicing each maximal physically-contiguous
// sub-range through w (if present) before committing it to the ring.
// Requires offset+n <= capacity: the source area must not straddle the
// write position, since otherwise its own tail would be overwritten
// before being read. That precondition also guarantees the match distance
// is never shorter than the match length, so a plain slice copy (rather
// than a byte-at-a-time self-referencing copy) is always correct here.
func (r *historyRing) copy(w ringWriter, offset, n uint32) uint32 {
	base := r.writePos
	var total uint32
	for total < n {
		readPos := (base + offset + total) & r.mask
		toCopy := r.capacity - readPos
		if remaining := n - total; toCopy > remaining {
			toCopy = remaining
		}

		s := r.buf[readPos : readPos+toCopy]
		accepted := toCopy
		if w != nil {
			accepted = uint32(w.writeRange(s))
		}

		r.write(s[:accepted])
		total += accepted

		if accepted < toCopy {
			break
		}
	}
	return total
}

// findChar searches at most n bytes starting offset past the write
// position for the byte c, in ring order, and returns the offset (past
// the write position) of the first match, or noMatch.
//
// When the ring has never wrapped and the search range lies entirely in
// the not-yet-written region after the write position, that region is
// known to be all zero (reset zero-fills the buffer and write only
// advances writePos), so the answer is derived without scanning.
func (r *historyRing) findChar(offset, n uint32, c byte) uint32 {
	if n == 0 {
		return noMatch
	}

	if !r.filled && r.writePos+offset+n <= r.capacity {
		// Range lies entirely in the virgin tail [writePos, capacity),
		// which reset zero-filled and nothing has overwritten since.
		if c == 0 {
			return offset
		}
		return noMatch
	}

	remaining := n
	searchOffset := offset
	for remaining > 0 {
		pos := (r.writePos + searchOffset) & r.mask
		chunkLen := r.capacity - pos
		if chunkLen > remaining {
			chunkLen = remaining
		}

		if idx := bytes.IndexByte(r.buf[pos:pos+chunkLen], c); idx >= 0 {
			return searchOffset + uint32(idx)
		}

		searchOffset += chunkLen
		remaining -= chunkLen
	}

	return noMatch
}

// compare lexicographically compares the n-byte windows starting o1 and o2
// past the write position, treating bytes as unsigned. It splits along
// whichever window's physical end comes first and advances both.
func (r *historyRing) compare(o1, o2, n uint32) int {
	remaining := n
	for remaining > 0 {
		p1 := (r.writePos + o1) & r.mask
		p2 := (r.writePos + o2) & r.mask

		chunk := remaining
		if avail := r.capacity - p1; avail < chunk {
			chunk = avail
		}
		if avail := r.capacity - p2; avail < chunk {
			chunk = avail
		}

		if c := bytes.Compare(r.buf[p1:p1+chunk], r.buf[p2:p2+chunk]); c != 0 {
			return c
		}

		o1 += chunk
		o2 += chunk
		remaining -= chunk
	}
	return 0
}
