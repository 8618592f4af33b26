// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// bitAccumulator buffers bits LSB-first: bit 0 of the first emitted byte
// of the stream is the first bit of the first token. A uint32 comfortably
// holds width(k)+1 bits more than the 7-bit minimum the format needs (at
// most 17 bits when k=9), with headroom to spare. A single codec instance
// only ever drives the accumulator in one direction (the decoder reads,
// the encoder writes), but both directions live on the same type since
// they share the same buffered-bits representation.
type bitAccumulator struct {
	acc   uint32
	nbits uint
}

// readBits pulls whole input bytes into acc — each byte's bits landing
// above the bits already buffered — until it holds at least n bits or
// input runs out, then extracts the low n bits. pulled reports how many
// input bytes were consumed, for the caller's running totals. On a short
// read (ok false) any bytes already pulled stay buffered in acc for the
// next call: the call is idempotent-on-resume.
func (b *bitAccumulator) readBits(n uint, p *Params) (value uint32, pulled int, ok bool) {
	for b.nbits < n {
		byt, got := p.takeInByte()
		if !got {
			break
		}
		b.acc |= uint32(byt) << b.nbits
		b.nbits += 8
		pulled++
	}
	if b.nbits < n {
		return 0, pulled, false
	}

	mask := uint32(1)<<n - 1
	value = b.acc & mask
	b.acc >>= n
	b.nbits -= n
	return value, pulled, true
}

// drainBytes writes out any whole bytes currently buffered in acc.
// drained reports how many bytes made it to the output. It returns
// ok=false if output ran out mid-drain, leaving the undrained residue in
// acc for the next call.
func (b *bitAccumulator) drainBytes(p *Params) (drained int, ok bool) {
	var out [1]byte
	for b.nbits >= 8 {
		out[0] = byte(b.acc)
		if p.putOut(out[:]) == 0 {
			return drained, false
		}
		b.acc >>= 8
		b.nbits -= 8
		drained++
	}
	return drained, true
}

// writeBits drains any whole bytes already buffered, then appends v's
// low n bits at the top of the accumulator. v must be < 1<<n. If draining
// runs out of output room first, ok is false and v is not appended at
// all — the caller re-enters with more output room and nothing is lost.
func (b *bitAccumulator) writeBits(n uint, v uint32, p *Params) (drained int, ok bool) {
	drained, ok = b.drainBytes(p)
	if !ok {
		return drained, false
	}
	b.acc |= (v & (uint32(1)<<n - 1)) << b.nbits
	b.nbits += n
	return drained, true
}

// flush pads acc up to the next multiple of 8 bits with zero bits, then
// drains everything. After a successful flush no further writes may
// occur on this stream.
func (b *bitAccumulator) flush(p *Params) (drained int, ok bool) {
	if pad := b.nbits % 8; pad != 0 {
		b.nbits += 8 - pad
	}
	return b.drainBytes(p)
}
