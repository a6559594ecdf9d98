// Package tween implements the cache-based blend engine: a drag-start
// capture of every bracketed parameter, then repeated applies that
// recompute live values from the snapshot alone.
package tween

import (
	"sort"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

// Mode selects the blend formula. Space shares Lerp's formula; it exists
// so callers can state intent.
type Mode int

const (
	ModeLerp Mode = iota + 1
	ModeSpace
	ModeOffset
	ModeRest
	ModeForce
)

func (m Mode) String() string {
	switch m {
	case ModeSpace:
		return "space"
	case ModeOffset:
		return "offset"
	case ModeRest:
		return "rest"
	case ModeForce:
		return "force"
	default:
		return "lerp"
	}
}

// ParseMode maps a name to its mode, defaulting to lerp.
func ParseMode(s string) Mode {
	switch s {
	case "space":
		return ModeSpace
	case "offset":
		return ModeOffset
	case "rest", "default":
		return ModeRest
	case "force", "pushpull":
		return ModeForce
	default:
		return ModeLerp
	}
}

// sample is one captured parameter group. Scalar and axis channels use
// vals; quaternion rotation keeps whole quats.
type sample struct {
	set          anim.ChannelSet
	prevT, nextT float64

	prev, next, orig [3]float64

	prevQ, nextQ, origQ mathutil.Quat
}

// Session is one drag's capture. Build once at drag start, Apply per
// increment, drop at release.
type Session struct {
	now     float64
	samples []sample
}

// Build captures every channel set that has a key strictly before and
// strictly after now. Unusable sets are counted and skipped, never fatal.
func Build(sets []anim.ChannelSet, now float64) (*Session, *anim.CaptureReport) {
	s := &Session{now: now}
	report := anim.NewCaptureReport()

	for _, cs := range sets {
		if cs.IsQuat() {
			if smp, reason := captureQuat(cs, now); reason == "" {
				s.samples = append(s.samples, smp)
				report.Resolved++
			} else {
				report.Skip(reason)
			}
			continue
		}
		if smp, reason := captureScalar(cs, now); reason == "" {
			s.samples = append(s.samples, smp)
			report.Resolved++
		} else {
			report.Skip(reason)
		}
	}
	return s, report
}

func captureQuat(cs anim.ChannelSet, now float64) (sample, anim.SkipReason) {
	q := cs.Quat
	if q.KeyCount() < 2 {
		return sample{}, anim.SkipTooFewKeys
	}
	prevT, nextT, ok := bracket(quatTimes(q), now)
	if !ok {
		return sample{}, anim.SkipNoBracket
	}
	return sample{
		set:   cs,
		prevT: prevT,
		nextT: nextT,
		prevQ: mathutil.Quat(q.QuatAt(prevT)),
		nextQ: mathutil.Quat(q.QuatAt(nextT)),
		origQ: mathutil.Quat(q.QuatAt(now)),
	}, ""
}

func captureScalar(cs anim.ChannelSet, now float64) (sample, anim.SkipReason) {
	handles := cs.ScalarHandles()
	if len(handles) == 0 {
		return sample{}, anim.SkipUnsupported
	}

	times := unionKeyTimes(handles)
	if len(times) < 2 {
		return sample{}, anim.SkipTooFewKeys
	}
	prevT, nextT, ok := bracket(times, now)
	if !ok {
		return sample{}, anim.SkipNoBracket
	}

	smp := sample{set: cs, prevT: prevT, nextT: nextT}
	if cs.Scalar != nil {
		smp.prev[0] = cs.Scalar.ValueAt(prevT)
		smp.next[0] = cs.Scalar.ValueAt(nextT)
		smp.orig[0] = cs.Scalar.ValueAt(now)
		return smp, ""
	}
	for i, h := range cs.Axes {
		if h == nil {
			continue
		}
		smp.prev[i] = h.ValueAt(prevT)
		smp.next[i] = h.ValueAt(nextT)
		smp.orig[i] = h.ValueAt(now)
	}
	return smp, ""
}

// Apply recomputes every captured sample for the normalized drag amount
// and writes the results through the handles. Per-write failures are
// counted, never propagated.
func (s *Session) Apply(amount float64, mode Mode) anim.ApplyReport {
	t := paramFor(amount, mode)
	var report anim.ApplyReport

	for i := range s.samples {
		smp := &s.samples[i]
		if smp.set.IsQuat() {
			s.applyQuat(smp, t, mode, &report)
			continue
		}
		s.applyScalar(smp, t, mode, &report)
	}
	return report
}

// paramFor derives the interpolation parameter from the drag amount.
func paramFor(amount float64, mode Mode) float64 {
	switch mode {
	case ModeRest:
		if amount < 0 {
			return -amount
		}
		return amount
	case ModeForce:
		return amount
	default: // lerp, space, offset
		return (amount + 1) / 2
	}
}

func (s *Session) applyScalar(smp *sample, t float64, mode Mode, report *anim.ApplyReport) {
	rest := smp.set.Kind.RestValue()

	write := func(h anim.Handle, i int) {
		if h == nil {
			return
		}
		var v float64
		switch mode {
		case ModeOffset:
			// Explicit diff to match the tangent-aware rotation path's
			// associativity.
			diff := (smp.next[i] - smp.prev[i]) * t
			v = smp.prev[i] + diff
		case ModeRest:
			v = mathutil.Lerp(smp.orig[i], rest, t)
		case ModeForce:
			avg := (smp.prev[i] + smp.next[i]) / 2
			v = avg + (smp.orig[i]-avg)*(1+t)
		default:
			v = mathutil.Lerp(smp.prev[i], smp.next[i], t)
		}

		var err error
		if smp.set.Kind == anim.ChannelScale {
			// Scale channels are keyed explicitly.
			var idx int
			if idx, err = h.AddKeyAt(s.now); err == nil {
				err = h.SetKeyValue(idx, v)
			}
		} else {
			err = h.SetValueAt(s.now, v)
		}
		if err != nil {
			report.Failed++
		} else {
			report.Written++
		}
	}

	if smp.set.Scalar != nil {
		write(smp.set.Scalar, 0)
		return
	}
	for i, h := range smp.set.Axes {
		write(h, i)
	}
}

func (s *Session) applyQuat(smp *sample, t float64, mode Mode, report *anim.ApplyReport) {
	var q mathutil.Quat
	switch mode {
	case ModeRest:
		q = mathutil.Slerp(smp.origQ, mathutil.QuatIdentity(), t)
	case ModeForce:
		avg := mathutil.Slerp(smp.prevQ, smp.nextQ, 0.5)
		if t >= 0 {
			q = mathutil.Slerp(avg, smp.origQ, 1+t)
		} else {
			q = mathutil.Slerp(smp.origQ, avg, -t)
		}
	default:
		q = mathutil.Slerp(smp.prevQ, smp.nextQ, t)
	}

	if err := smp.set.Quat.SetQuatAt(s.now, [4]float64(q)); err != nil {
		report.Failed++
	} else {
		report.Written++
	}
}

// Samples reports how many parameter groups the session tracks.
func (s *Session) Samples() int { return len(s.samples) }

func quatTimes(q anim.QuatHandle) []float64 {
	times := make([]float64, q.KeyCount())
	for i := range times {
		times[i] = q.KeyTime(i)
	}
	return times
}

func unionKeyTimes(handles []anim.Handle) []float64 {
	seen := make(map[float64]struct{})
	var times []float64
	for _, h := range handles {
		for i := 0; i < h.KeyCount(); i++ {
			t := h.KeyTime(i)
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				times = append(times, t)
			}
		}
	}
	sort.Float64s(times)
	return times
}

// bracket finds the nearest key times strictly before and after now.
func bracket(times []float64, now float64) (prev, next float64, ok bool) {
	hasPrev, hasNext := false, false
	for _, t := range times {
		if t < now {
			prev = t
			hasPrev = true
		}
		if t > now && !hasNext {
			next = t
			hasNext = true
		}
	}
	return prev, next, hasPrev && hasNext
}
