// Package pushpull scales selected keys' deviation from the straight
// line through their unselected neighbors: -1 collapses onto the line,
// +1 doubles the deviation.
package pushpull

import (
	"rig-curve-tools/internal/anim"
)

const degenerateSpan = 1e-3

// cachedKey is one selected key with its reference-line decomposition.
type cachedKey struct {
	index     int
	lineValue float64
	offset    float64
}

type cachedHandle struct {
	handle anim.Handle
	keys   []cachedKey
}

// Session is one drag's capture.
type Session struct {
	handles []cachedHandle
}

// Build caches every scalar handle that has at least two keys and a
// selected key, decomposing each selected key into line value plus
// offset. Quaternion rotation sets are rejected whole.
func Build(sets []anim.ChannelSet) (*Session, *anim.CaptureReport) {
	s := &Session{}
	report := anim.NewCaptureReport()

	for _, cs := range sets {
		if cs.IsQuat() {
			report.Skip(anim.SkipNonScalar)
			continue
		}
		handles := cs.ScalarHandles()
		if len(handles) == 0 {
			report.Skip(anim.SkipUnsupported)
			continue
		}
		for _, h := range handles {
			if ch, reason := capture(h); reason == "" {
				s.handles = append(s.handles, ch)
				report.Resolved++
			} else {
				report.Skip(reason)
			}
		}
	}
	return s, report
}

func capture(h anim.Handle) (cachedHandle, anim.SkipReason) {
	n := h.KeyCount()
	if n < 2 {
		return cachedHandle{}, anim.SkipTooFewKeys
	}

	values := make([]float64, n)
	var selected []int
	for i := 0; i < n; i++ {
		v, err := h.KeyValue(i)
		if err != nil {
			return cachedHandle{}, anim.SkipReadFailed
		}
		values[i] = v
		if h.KeySelected(i) {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		return cachedHandle{}, anim.SkipNoSelection
	}

	// Reference line: nearest unselected key before the selection to the
	// nearest unselected key after it, anchoring on the selection edge
	// when a side has no neighbor.
	refBefore := selected[0]
	for i := selected[0] - 1; i >= 0; i-- {
		if !h.KeySelected(i) {
			refBefore = i
			break
		}
	}
	refAfter := selected[len(selected)-1]
	for i := selected[len(selected)-1] + 1; i < n; i++ {
		if !h.KeySelected(i) {
			refAfter = i
			break
		}
	}

	timeA, timeB := h.KeyTime(refBefore), h.KeyTime(refAfter)
	span := timeB - timeA
	if span < degenerateSpan {
		return cachedHandle{}, anim.SkipDegenerate
	}
	valueA, valueB := values[refBefore], values[refAfter]

	ch := cachedHandle{handle: h}
	for _, i := range selected {
		ratio := (h.KeyTime(i) - timeA) / span
		line := valueA + ratio*(valueB-valueA)
		ch.keys = append(ch.keys, cachedKey{
			index:     i,
			lineValue: line,
			offset:    values[i] - line,
		})
	}
	return ch, ""
}

// Apply writes lineValue + offset·(1+amount) to every cached key.
func (s *Session) Apply(amount float64) anim.ApplyReport {
	scale := 1 + amount
	var report anim.ApplyReport

	for _, ch := range s.handles {
		for _, k := range ch.keys {
			v := k.lineValue + k.offset*scale
			if err := ch.handle.SetKeyValue(k.index, v); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

// Handles reports how many handles the session tracks.
func (s *Session) Handles() int { return len(s.handles) }
