// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// decState enumerates the decoder's suspendable states. Each is a small
// method below rather than a switch-label fallthrough, so the driver loop
// can check after every step whether to continue within the same call or
// return the step's status to the caller.
type decState int

const (
	decProgress decState = iota
	decGetType
	decGetOffset
	decGetSize
	decCopyData
	decGetByte
	decPutByte
)

// Decoder drives the Gordon Key decompression state machine. It is
// suspendable at any state boundary: a Decode call that returns
// StatusBufferOverflow or StatusTruncatedInput may be re-entered with a
// fresh Params and will resume bit-for-bit where it left off.
type Decoder struct {
	state decState
	k     uint

	readOffset uint32
	readSize   uint32
	literal    byte

	inTotal  uint64
	outTotal uint64

	ring *historyRing
	bits bitAccumulator

	lenient bool
	logger  Logger

	terminal       bool
	terminalStatus Status
}

// NewDecoder allocates a Decoder with history capacity 1<<opts.HistoryLog2.
// opts may be nil to use DefaultDecodeOptions(9). Returns ErrAllocFailed,
// with a nil Decoder, if opts.HistoryAllocator reports failure; no partial
// object is left behind in that case.
func NewDecoder(opts *DecodeOptions) (*Decoder, error) {
	if opts == nil {
		opts = DefaultDecodeOptions(9)
	}
	if opts.HistoryLog2 > 9 {
		panic(ErrBadHistoryLog2)
	}

	ring, ok := acquireHistoryRing(opts.HistoryLog2, opts.allocator())
	if !ok {
		return nil, ErrAllocFailed
	}

	return &Decoder{
		k:       opts.HistoryLog2,
		ring:    ring,
		lenient: opts.Lenient,
		logger:  opts.logger(),
	}, nil
}

// Reset returns the decoder to its initial state without reallocating.
func (d *Decoder) Reset() {
	if d == nil {
		panic(ErrNilHandle)
	}
	d.state = decProgress
	d.readOffset, d.readSize, d.literal = 0, 0, 0
	d.inTotal, d.outTotal = 0, 0
	d.bits = bitAccumulator{}
	d.terminal = false
	d.terminalStatus = StatusOK
	d.ring.reset()
}

// Close releases the decoder's history ring back to the shared pool. It
// tolerates a nil receiver.
func (d *Decoder) Close() {
	if d == nil {
		return
	}
	releaseHistoryRing(d.ring)
	d.ring = nil
}

// InTotal and OutTotal report the running, monotonic byte counts this
// decoder has consumed and emitted since construction or the last Reset.
func (d *Decoder) InTotal() uint64  { return d.inTotal }
func (d *Decoder) OutTotal() uint64 { return d.outTotal }

func (d *Decoder) latch(s Status) Status {
	d.logger.Debugf("gkey: decoder latching terminal status %s", s)
	d.terminal = true
	d.terminalStatus = s
	return s
}

// Decode advances the decoder using p, mutating p in place: In is
// advanced past bytes consumed, Out past bytes written (or OutCount is
// incremented, in sizing mode). It returns as soon as a state cannot
// complete with what p currently offers, or the stream reaches a
// terminal outcome.
func (d *Decoder) Decode(p *Params) Status {
	if d == nil {
		panic(ErrNilHandle)
	}
	if d.terminal {
		return d.terminalStatus
	}

	for {
		var status Status
		var advance bool

		switch d.state {
		case decProgress:
			status, advance = d.stepProgress(p)
		case decGetType:
			status, advance = d.stepGetType(p)
		case decGetOffset:
			status, advance = d.stepGetOffset(p)
		case decGetSize:
			status, advance = d.stepGetSize(p)
		case decCopyData:
			status, advance = d.stepCopyData(p)
		case decGetByte:
			status, advance = d.stepGetByte(p)
		case decPutByte:
			status, advance = d.stepPutByte(p)
		}

		if !advance {
			return status
		}
	}
}

func (d *Decoder) stepProgress(p *Params) (Status, bool) {
	if !p.progress(d.inTotal, d.outTotal) {
		return d.latch(StatusAborted), false
	}
	d.state = decGetType
	return StatusOK, true
}

func (d *Decoder) stepGetType(p *Params) (Status, bool) {
	bit, pulled, ok := d.bits.readBits(1, p)
	d.inTotal += uint64(pulled)
	if !ok {
		if d.bits.acc == 0 {
			return d.latch(StatusFinished), false
		}
		return StatusTruncatedInput, false
	}

	if bit == 0 {
		d.state = decGetByte
	} else {
		d.state = decGetOffset
	}
	return StatusOK, true
}

func (d *Decoder) stepGetOffset(p *Params) (Status, bool) {
	v, pulled, ok := d.bits.readBits(d.k, p)
	d.inTotal += uint64(pulled)
	if !ok {
		return StatusTruncatedInput, false
	}

	d.readOffset = v
	d.state = decGetSize
	return StatusOK, true
}


func (d *Decoder) stepGetSize(p *Params) (Status, bool) {
	v, pulled, ok := d.bits.readBits(sizeBits(d.k, d.readOffset), p)
	d.inTotal += uint64(pulled)
	if !ok {
		return StatusTruncatedInput, false
	}

	if v == 0 {
		if !d.lenient {
			return d.latch(StatusBadInput), false
		}
		v = 1
	}
	if d.readOffset+v > uint32(1)<<d.k {
		return d.latch(StatusBadInput), false
	}

	d.readSize = v
	d.state = decCopyData
	d.logger.Debugf("gkey: copy %d bytes from offset %d", d.readSize, d.readOffset)
	return StatusOK, true
}

func (d *Decoder) stepCopyData(p *Params) (Status, bool) {
	accepted := d.ring.copy(decoderOutputWriter{p: p, d: d}, d.readOffset, d.readSize)
	if accepted < d.readSize {
		// read_offset is left untouched: it is measured relative to
		// write_pos, which the ring has already advanced by accepted.
		d.readSize -= accepted
		return StatusBufferOverflow, false
	}

	d.state = decProgress
	return StatusOK, true
}

func (d *Decoder) stepGetByte(p *Params) (Status, bool) {
	v, pulled, ok := d.bits.readBits(8, p)
	d.inTotal += uint64(pulled)
	if !ok {
		if d.bits.acc == 0 {
			return d.latch(StatusFinished), false
		}
		return StatusTruncatedInput, false
	}

	d.literal = byte(v)
	d.state = decPutByte
	return StatusOK, true
}

func (d *Decoder) stepPutByte(p *Params) (Status, bool) {
	var b [1]byte
	b[0] = d.literal

	n := p.putOut(b[:])
	d.outTotal += uint64(n)
	if n == 0 {
		return StatusBufferOverflow, false
	}

	d.ring.write(b[:])
	d.state = decProgress
	return StatusOK, true
}

// decoderOutputWriter is the ringWriter strategy used by stepCopyData: it
// splices a ring self-copy with a write into the caller's output window
// (or, in sizing mode, a plain count), keeping the decoder's out_total in
// step with whatever the ring actually commits.
type decoderOutputWriter struct {
	p *Params
	d *Decoder
}

func (w decoderOutputWriter) writeRange(b []byte) int {
	n := w.p.putOut(b)
	w.d.outTotal += uint64(n)
	return n
}
