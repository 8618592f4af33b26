// SPDX-License-Identifier: MIT
// Source: github.com/archimedean/gkey

package gkey

// ProgressFunc is called periodically during Decode/Encode with the
// running totals of bytes consumed and emitted. Returning false aborts
// the operation with StatusAborted.
type ProgressFunc func(cbArg any, inTotal, outTotal uint64) bool

// Params is the caller-owned parameter block threaded through one or
// more Decode/Encode calls. In and Out are mutated in place: In is
// advanced past bytes consumed, Out past bytes written. Sizing mode
// (no real output window) is an explicit flag rather than inferred from
// a nil Out, since a present-but-empty buffer and an absent one must
// behave differently (the former can overflow, the latter never does).
type Params struct {
	In []byte

	Out []byte
	// Sizing selects "no output window" mode: OutCount accumulates the
	// number of bytes that would have been written instead of Out being
	// consumed. Out is ignored while Sizing is true.
	Sizing   bool
	OutCount int

	// Progress, if non-nil, is invoked as described on ProgressFunc.
	Progress ProgressFunc
	CBArg    any
}

// takeInByte consumes and returns the next input byte. ok is false if In
// is exhausted.
func (p *Params) takeInByte() (b byte, ok bool) {
	if len(p.In) == 0 {
		return 0, false
	}
	b, p.In = p.In[0], p.In[1:]
	return b, true
}

// putOut writes b to the output window, or — in sizing mode — simply
// counts it, and returns how many leading bytes were accepted.
func (p *Params) putOut(b []byte) int {
	if p.Sizing {
		p.OutCount += len(b)
		return len(b)
	}
	n := copy(p.Out, b)
	p.Out = p.Out[n:]
	return n
}

// progress invokes the progress callback, if any, with the given totals.
// It returns false only when the callback vetoes continuation.
func (p *Params) progress(inTotal, outTotal uint64) bool {
	if p.Progress == nil {
		return true
	}
	return p.Progress(p.CBArg, inTotal, outTotal)
}
