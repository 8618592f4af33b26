// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// encState enumerates the encoder's suspendable states, mirroring
// decState's one-method-per-state shape.
type encState int

// encProgress is state zero: a freshly constructed or Reset Encoder has
// its sequence scratch fields already zeroed, so it starts directly at
// Progress rather than at NextSequence (which exists only to re-zero
// that scratch after a token is committed).
const (
	encProgress encState = iota
	encFindSequence
	encPutOffset
	encPutSize
	encPutByte
	encPutBytes
	encFlush
	encNextSequence
)

// Encoder drives the Gordon Key compression state machine. Like Decoder,
// it is suspendable at any state boundary.
type Encoder struct {
	state encState
	k     uint
	delta uint32 // 1 unless AllowMostRecentByte, else 0

	maxReadSize    uint32
	bestReadOffset uint32
	bestReadSize   uint32
	readOffset     uint32
	readSize       uint32

	// flush is latched at the top of each Encode call from whether the
	// caller's input was empty on entry; find_sequence is skipped
	// entirely on a flush call, so whatever sequence was already pending
	// (complete or still mid-search) is taken as final.
	flush bool

	inTotal  uint64
	outTotal uint64

	ring *historyRing
	bits bitAccumulator

	logger Logger

	terminal       bool
	terminalStatus Status
}

// NewEncoder allocates an Encoder with history capacity 1<<opts.HistoryLog2.
// opts may be nil to use DefaultEncodeOptions(9). Returns ErrAllocFailed,
// with a nil Encoder, if opts.HistoryAllocator reports failure.
func NewEncoder(opts *EncodeOptions) (*Encoder, error) {
	if opts == nil {
		opts = DefaultEncodeOptions(9)
	}
	if opts.HistoryLog2 > 9 {
		panic(ErrBadHistoryLog2)
	}

	ring, ok := acquireHistoryRing(opts.HistoryLog2, opts.allocator())
	if !ok {
		return nil, ErrAllocFailed
	}

	delta := uint32(1)
	if opts.AllowMostRecentByte {
		delta = 0
	}

	return &Encoder{
		k:      opts.HistoryLog2,
		delta:  delta,
		ring:   ring,
		logger: opts.logger(),
	}, nil
}

// Reset returns the encoder to its initial state without reallocating.
func (e *Encoder) Reset() {
	if e == nil {
		panic(ErrNilHandle)
	}
	e.state = encProgress
	e.maxReadSize, e.bestReadOffset, e.bestReadSize = 0, 0, 0
	e.readOffset, e.readSize = 0, 0
	e.flush = false
	e.inTotal, e.outTotal = 0, 0
	e.bits = bitAccumulator{}
	e.terminal = false
	e.terminalStatus = StatusOK
	e.ring.reset()
}

// Close releases the encoder's history ring back to the shared pool. It
// tolerates a nil receiver.
func (e *Encoder) Close() {
	if e == nil {
		return
	}
	releaseHistoryRing(e.ring)
	e.ring = nil
}

// InTotal and OutTotal report the running, monotonic byte counts this
// encoder has consumed and emitted since construction or the last Reset.
func (e *Encoder) InTotal() uint64  { return e.inTotal }
func (e *Encoder) OutTotal() uint64 { return e.outTotal }

func (e *Encoder) latch(s Status) Status {
	e.logger.Debugf("gkey: encoder latching terminal status %s", s)
	e.terminal = true
	e.terminalStatus = s
	return s
}

// Encode advances the encoder using p, mutating p in place. An empty
// p.In on entry signals "no more data is coming": the encoder forces the
// current sequence closed and then flushes. Encode never returns
// StatusBadInput or StatusTruncatedInput — a short call simply returns
// StatusOK and should be re-entered once more input (or the empty-input
// flush signal) is available.
func (e *Encoder) Encode(p *Params) Status {
	if e == nil {
		panic(ErrNilHandle)
	}
	if e.terminal {
		return e.terminalStatus
	}

	e.flush = len(p.In) == 0

	for {
		var status Status
		var advance bool

		switch e.state {
		case encNextSequence:
			status, advance = e.stepNextSequence(p)
		case encProgress:
			status, advance = e.stepProgress(p)
		case encFindSequence:
			status, advance = e.stepFindSequence(p)
		case encPutOffset:
			status, advance = e.stepPutOffset(p)
		case encPutSize:
			status, advance = e.stepPutSize(p)
		case encPutByte:
			status, advance = e.stepPutByte(p)
		case encPutBytes:
			status, advance = e.stepPutBytes(p)
		case encFlush:
			status, advance = e.stepFlush(p)
		}

		if !advance {
			return status
		}
	}
}

func (e *Encoder) stepNextSequence(p *Params) (Status, bool) {
	e.bestReadSize, e.bestReadOffset = 0, 0
	e.readSize, e.readOffset = 0, 0
	e.state = encProgress
	return StatusOK, true
}

func (e *Encoder) stepProgress(p *Params) (Status, bool) {
	if !p.progress(e.inTotal, e.outTotal) {
		return e.latch(StatusAborted), false
	}
	e.state = encFindSequence
	return StatusOK, true
}

func (e *Encoder) stepFindSequence(p *Params) (Status, bool) {
	found := e.flush
	if !found {
		found = e.findSequence(p)
	}
	if !found {
		// Lack of input stalled the search; e.readOffset/readSize/
		// maxReadSize/bestRead* are left as the in-progress scratch for
		// the next Encode call to resume from.
		return StatusOK, false
	}

	if e.readSize == 0 {
		if len(p.In) > 0 {
			e.state = encPutByte
		} else {
			// in_size == 0 on this call, which is exactly e.flush.
			e.state = encFlush
		}
		return StatusOK, true
	}

	nbits := sizeBits(e.k, e.readOffset)
	if e.readSize*9 < uint32(e.k)+uint32(nbits)+1 {
		e.logger.Debugf("gkey: sequence %d..%d cheaper as literals", e.readOffset, e.readOffset+e.readSize-1)
		e.state = encPutBytes
	} else {
		e.logger.Debugf("gkey: sequence %d..%d encoded as copy", e.readOffset, e.readOffset+e.readSize-1)
		e.state = encPutOffset
	}
	return StatusOK, true
}

func (e *Encoder) stepPutOffset(p *Params) (Status, bool) {
	drained, ok := e.bits.writeBits(e.k+1, (e.readOffset<<1)|1, p)
	e.outTotal += uint64(drained)
	if !ok {
		return StatusBufferOverflow, false
	}
	e.state = encPutSize
	return StatusOK, true
}

func (e *Encoder) stepPutSize(p *Params) (Status, bool) {
	nbits := sizeBits(e.k, e.readOffset)
	drained, ok := e.bits.writeBits(nbits, e.readSize, p)
	e.outTotal += uint64(drained)
	if !ok {
		return StatusBufferOverflow, false
	}

	e.ring.copy(nil, e.readOffset, e.readSize)
	e.state = encNextSequence
	return StatusOK, true
}

func (e *Encoder) stepPutByte(p *Params) (Status, bool) {
	b := p.In[0]
	drained, ok := e.bits.writeBits(9, uint32(b)<<1, p)
	e.outTotal += uint64(drained)
	if !ok {
		return StatusBufferOverflow, false
	}

	var buf [1]byte
	buf[0] = b
	e.ring.write(buf[:])

	p.In = p.In[1:]
	e.inTotal++

	e.state = encNextSequence
	return StatusOK, true
}

func (e *Encoder) stepPutBytes(p *Params) (Status, bool) {
	copied := e.ring.copy(encoderLiteralWriter{p: p, e: e}, e.readOffset, e.readSize)
	if copied < e.readSize {
		// read_offset is relative to write_pos, already advanced by
		// copied, so it is left untouched.
		e.readSize -= copied
		return StatusBufferOverflow, false
	}

	e.state = encNextSequence
	return StatusOK, true
}

func (e *Encoder) stepFlush(p *Params) (Status, bool) {
	drained, ok := e.bits.flush(p)
	e.outTotal += uint64(drained)
	if !ok {
		return StatusBufferOverflow, false
	}
	// Writing after a flush would corrupt the bit stream, so this state
	// is terminal: it is never left once reached.
	return e.latch(StatusFinished), false
}

// findSequence searches the history ring for the longest sequence of
// input bytes that already appears in it, restarting from whatever
// scratch state (read_offset, read_size, max_read_size, best_read*) a
// prior stalled call left behind. It reports false, having consumed
// whatever input it could, if it ran out of input before the search
// could be proven complete; the caller re-enters with more input to
// resume exactly where this left off.
func (e *Encoder) findSequence(p *Params) bool {
	readOffset := e.readOffset
	readSize := e.readSize
	maxReadSize := e.maxReadSize
	bestReadSize := e.bestReadSize

	consumed := 0

	for {
		if readSize == 0 {
			// How far could a sequence starting at readOffset extend,
			// before it would need a source byte this variant forbids
			// (the δ most-recently-written bytes) or would run off the
			// end of the ring?
			capacity := uint32(1) << e.k
			maxReadSize = capacity - readOffset
			if e.delta > 0 && maxReadSize > 0 {
				maxReadSize--
			}

			if bestReadSize >= maxReadSize {
				break
			}

			var target byte
			if bestReadSize == 0 {
				if consumed >= len(p.In) {
					break
				}
				target = p.In[consumed]
			} else {
				target = e.ring.readChar(e.bestReadOffset)
			}

			oldReadOffset := readOffset
			found := e.ring.findChar(readOffset, maxReadSize-bestReadSize, target)
			if found == noMatch {
				maxReadSize = 0
				break
			}
			readOffset = found

			if readSize >= bestReadSize {
				consumed++
			}
			readSize++

			maxReadSize -= readOffset - oldReadOffset

			if e.delta == 0 {
				// Without the most-recent-byte exclusion, a sequence can
				// grow long enough that its length no longer fits in the
				// size field sizeBits allots at this offset (the field
				// narrows by one bit past the half-window boundary).
				// Clamp to what the field can actually hold.
				nbits := sizeBits(e.k, readOffset)
				bitsLimit := (uint32(1) << nbits) - 1
				if maxReadSize > bitsLimit {
					maxReadSize = bitsLimit
					if maxReadSize <= bestReadSize {
						break
					}
				}
			}

			if readSize < bestReadSize {
				if e.ring.compare(readOffset+readSize, e.bestReadOffset+readSize, bestReadSize-readSize) != 0 {
					readOffset++
					readSize = 0
					continue
				}
				readSize = bestReadSize
			}
		}

		for readSize < maxReadSize {
			if consumed >= len(p.In) {
				goto finished
			}
			newByte := p.In[consumed]
			oldByte := e.ring.readChar(readOffset + readSize)
			if newByte != oldByte {
				break
			}
			consumed++
			readSize++
		}

		if readSize > bestReadSize {
			e.bestReadOffset = readOffset
			bestReadSize = readSize
		}

		readOffset++
		readSize = 0
	}

finished:
	p.In = p.In[consumed:]
	e.inTotal += uint64(consumed)

	e.maxReadSize = maxReadSize
	e.bestReadSize = bestReadSize

	if bestReadSize >= maxReadSize {
		e.readSize = bestReadSize
		e.readOffset = e.bestReadOffset
		return true
	}

	e.readOffset = readOffset
	e.readSize = readSize
	return false
}

// encoderLiteralWriter is the ringWriter strategy used by stepPutBytes:
// it splices a ring self-copy with a 9-bit-per-byte literal write to the
// bit stream (the byte shifted up one with its low bit clear, matching
// the literal encoding stepPutByte uses for a single byte).
type encoderLiteralWriter struct {
	p *Params
	e *Encoder
}

func (w encoderLiteralWriter) writeRange(b []byte) int {
	n := 0
	for _, c := range b {
		drained, ok := w.e.bits.writeBits(9, uint32(c)<<1, w.p)
		w.e.outTotal += uint64(drained)
		if !ok {
			break
		}
		n++
	}
	return n
}
