package keytools

import (
	"math"

	"rig-curve-tools/internal/anim"
)

const (
	holdTol   = 1e-3
	linearTol = 0.05

	polishedHandleLen = 0.333
	flowHandleLen     = 0.4
	bounceHandleLen   = 0.15
)

// SetKind sets a native tangent kind on every selected key.
func SetKind(handles []anim.Handle, kind anim.TangentKind) anim.ApplyReport {
	var report anim.ApplyReport
	for _, h := range handles {
		for i := 0; i < h.KeyCount(); i++ {
			if !h.KeySelected(i) {
				continue
			}
			if err := h.SetTangent(i, anim.Tangent{Kind: kind}); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

// CycleMatch makes first and last key loop-seamless: the last key takes
// the first key's value, and both ends share the first key's natural
// outgoing slope.
func CycleMatch(handles []anim.Handle) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		n := h.KeyCount()
		if n < 2 {
			continue
		}
		v0, err0 := h.KeyValue(0)
		if err0 != nil {
			report.Failed++
			continue
		}

		if err := h.SetKeyValue(n-1, v0); err != nil {
			report.Failed++
			continue
		}

		v1, err1 := h.KeyValue(1)
		if err1 != nil {
			report.Failed++
			continue
		}
		span := h.KeyTime(1) - h.KeyTime(0)
		slope := 0.0
		if span > timeEps {
			slope = (v1 - v0) / span
		}

		tan := anim.Tangent{
			Kind:      anim.TangentCustom,
			InSlope:   slope,
			OutSlope:  slope,
			InLength:  polishedHandleLen,
			OutLength: polishedHandleLen,
		}
		if h.SetTangent(0, tan) != nil || h.SetTangent(n-1, tan) != nil {
			report.Failed++
			continue
		}
		report.Written++
	}
	return report
}

// BestGuess picks a tangent kind per selected key from curve context:
// flat for holds and peaks/valleys, linear for straight segments, auto
// otherwise.
func BestGuess(handles []anim.Handle) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		n := h.KeyCount()
		if n < 2 {
			continue
		}
		values, ok := readValues(h)
		if !ok {
			continue
		}

		for i := 0; i < n; i++ {
			if !h.KeySelected(i) {
				continue
			}
			kind := guessKind(h, values, i)
			if err := h.SetTangent(i, anim.Tangent{Kind: kind}); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

func guessKind(h anim.Handle, values []float64, i int) anim.TangentKind {
	n := len(values)
	if i == 0 || i == n-1 {
		return anim.TangentAuto
	}

	v, vp, vn := values[i], values[i-1], values[i+1]

	// Hold: value matches a neighbor.
	if math.Abs(v-vp) < holdTol || math.Abs(v-vn) < holdTol {
		return anim.TangentFlat
	}

	// Peak/valley: direction change. Flat prevents overshoot.
	upIn := (v - vp) > holdTol
	upOut := (vn - v) > holdTol
	downIn := (vp - v) > holdTol
	downOut := (v - vn) > holdTol
	if (upIn && downOut) || (downIn && upOut) {
		return anim.TangentFlat
	}

	dtIn := h.KeyTime(i) - h.KeyTime(i-1)
	dtOut := h.KeyTime(i+1) - h.KeyTime(i)
	if dtIn <= timeEps || dtOut <= timeEps {
		return anim.TangentAuto
	}
	slopeIn := (v - vp) / dtIn
	slopeOut := (vn - v) / dtOut
	if math.Abs(slopeIn) <= holdTol && math.Abs(slopeOut) <= holdTol {
		return anim.TangentFlat
	}

	maxSlope := math.Max(math.Max(math.Abs(slopeIn), math.Abs(slopeOut)), holdTol)
	if math.Abs(slopeIn-slopeOut)/maxSlope < linearTol {
		return anim.TangentLinear
	}
	return anim.TangentAuto
}

// Polished gives selected keys time-weighted average slopes with
// balanced handles, flattening at peaks and valleys; edge keys fall back
// to smooth.
func Polished(handles []anim.Handle) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		n := h.KeyCount()
		if n < 2 {
			continue
		}
		values, ok := readValues(h)
		if !ok {
			continue
		}

		for i := 0; i < n; i++ {
			if !h.KeySelected(i) {
				continue
			}

			var tan anim.Tangent
			if i == 0 || i == n-1 {
				tan = anim.Tangent{Kind: anim.TangentSmooth}
			} else {
				dtIn := h.KeyTime(i) - h.KeyTime(i-1)
				dtOut := h.KeyTime(i+1) - h.KeyTime(i)
				if dtIn <= timeEps || dtOut <= timeEps {
					continue
				}
				v, vp, vn := values[i], values[i-1], values[i+1]
				slope := 0.0
				isPeak := v > vp && v > vn
				isValley := v < vp && v < vn
				if !isPeak && !isValley {
					slopeIn := (v - vp) / dtIn
					slopeOut := (vn - v) / dtOut
					total := dtIn + dtOut
					// Opposite weighting: the nearer neighbor counts more.
					slope = slopeIn*(dtOut/total) + slopeOut*(dtIn/total)
				}
				tan = anim.Tangent{
					Kind:      anim.TangentCustom,
					InSlope:   slope,
					OutSlope:  slope,
					InLength:  polishedHandleLen,
					OutLength: polishedHandleLen,
				}
			}

			if err := h.SetTangent(i, tan); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

// Flow gives interior selected keys the prev-to-next through-slope with
// long handles, trading pose accuracy for momentum.
func Flow(handles []anim.Handle) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		n := h.KeyCount()
		if n < 3 {
			continue
		}
		values, ok := readValues(h)
		if !ok {
			continue
		}

		for i := 1; i < n-1; i++ {
			if !h.KeySelected(i) {
				continue
			}
			total := h.KeyTime(i+1) - h.KeyTime(i-1)
			if total <= timeEps {
				continue
			}
			slope := (values[i+1] - values[i-1]) / total
			tan := anim.Tangent{
				Kind:      anim.TangentCustom,
				InSlope:   slope,
				OutSlope:  slope,
				InLength:  flowHandleLen,
				OutLength: flowHandleLen,
			}
			if err := h.SetTangent(i, tan); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

// BounceMode selects which side of the key gets the fast handle.
type BounceMode int

const (
	BounceBoth BounceMode = iota
	BounceIn
	BounceOut
)

// Bounce gives selected keys short, snappy tangent handles: the chord
// slope toward each neighbor with a fast handle length. Free handles let
// the two sides differ.
func Bounce(handles []anim.Handle, mode BounceMode) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		n := h.KeyCount()
		if n < 2 {
			continue
		}
		values, ok := readValues(h)
		if !ok {
			continue
		}

		for i := 0; i < n; i++ {
			if !h.KeySelected(i) {
				continue
			}
			tan, err := h.KeyTangent(i)
			if err != nil {
				report.Failed++
				continue
			}
			tan.Kind = anim.TangentCustom
			tan.FreeHandle = true

			touched := false
			if i > 0 && (mode == BounceBoth || mode == BounceIn) {
				dt := h.KeyTime(i) - h.KeyTime(i-1)
				if dt > timeEps {
					tan.InSlope = (values[i] - values[i-1]) / dt
					tan.InLength = bounceHandleLen
					touched = true
				}
			}
			if i < n-1 && (mode == BounceBoth || mode == BounceOut) {
				dt := h.KeyTime(i+1) - h.KeyTime(i)
				if dt > timeEps {
					tan.OutSlope = (values[i+1] - values[i]) / dt
					tan.OutLength = bounceHandleLen
					touched = true
				}
			}
			if !touched {
				continue
			}
			if err := h.SetTangent(i, tan); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

func readValues(h anim.Handle) ([]float64, bool) {
	values := make([]float64, h.KeyCount())
	for i := range values {
		v, err := h.KeyValue(i)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
