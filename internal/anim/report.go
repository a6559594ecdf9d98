package anim

import "fmt"

// SkipReason explains why a handle was excluded from a capture.
type SkipReason string

const (
	SkipUnsupported SkipReason = "unsupported"  // not resolvable to a leaf scalar/vector handle
	SkipTooFewKeys  SkipReason = "too-few-keys" // fewer than 2 keys
	SkipNoBracket   SkipReason = "no-bracket"   // no key on both sides of the current time
	SkipNoSelection SkipReason = "no-selection" // no selected key on the handle
	SkipShortWave   SkipReason = "short-wave"   // waveform shorter than 1 time unit
	SkipDegenerate  SkipReason = "degenerate"   // zero-length key range
	SkipReadFailed  SkipReason = "read-failed"  // a value read errored during capture
	SkipNonScalar   SkipReason = "non-scalar"   // the channel group is not plain scalars
)

// CaptureReport aggregates the outcome of a Build* call. A capture never
// fails outright: handles that cannot serve are counted and the engine
// proceeds with the rest. Empty() is the only "nothing to do" condition.
type CaptureReport struct {
	Resolved int
	Skipped  map[SkipReason]int
}

func NewCaptureReport() *CaptureReport {
	return &CaptureReport{Skipped: make(map[SkipReason]int)}
}

func (r *CaptureReport) Skip(reason SkipReason) {
	r.Skipped[reason]++
}

func (r *CaptureReport) SkipCount() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

func (r *CaptureReport) Empty() bool { return r.Resolved == 0 }

func (r *CaptureReport) String() string {
	if r.Empty() {
		return "nothing to do"
	}
	if n := r.SkipCount(); n > 0 {
		return fmt.Sprintf("%d handles (%d skipped)", r.Resolved, n)
	}
	return fmt.Sprintf("%d handles", r.Resolved)
}

// ApplyReport counts the writes of one Apply call. Per-write failures are
// recovered locally; the caller only sees totals.
type ApplyReport struct {
	Written int
	Failed  int
}

func (r ApplyReport) String() string {
	if r.Failed > 0 {
		return fmt.Sprintf("%d written, %d failed", r.Written, r.Failed)
	}
	return fmt.Sprintf("%d written", r.Written)
}
