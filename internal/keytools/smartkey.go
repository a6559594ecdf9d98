package keytools

import (
	"math"

	"rig-curve-tools/internal/anim"
)

const (
	valueTol   = 1e-3
	slopeDelta = 0.05
)

// SmartKey inserts a key at now on every handle. When the live value
// differs from the curve value it keys the live value with auto
// tangents; otherwise it inserts a curve-preserving key whose custom
// tangents carry the local derivative, so the key changes nothing.
func SmartKey(handles []anim.Handle, now float64) anim.ApplyReport {
	var report anim.ApplyReport

	for _, h := range handles {
		if h == nil {
			continue
		}
		if err := smartKeyHandle(h, now); err != nil {
			report.Failed++
		} else {
			report.Written++
		}
	}
	return report
}

func smartKeyHandle(h anim.Handle, now float64) error {
	if h.KeyCount() == 0 {
		_, err := h.AddKeyAt(now)
		return err
	}

	curveVal := h.ValueAt(now)
	liveVal := h.LiveValue(now)

	if math.Abs(liveVal-curveVal) > valueTol {
		i, err := h.AddKeyAt(now)
		if err != nil {
			return err
		}
		if err := h.SetKeyValue(i, liveVal); err != nil {
			return err
		}
		return h.SetTangent(i, anim.Tangent{Kind: anim.TangentAuto})
	}

	// Value unchanged: preserve the curve through the new key.
	slope := (h.ValueAt(now+slopeDelta) - h.ValueAt(now-slopeDelta)) / (2 * slopeDelta)
	i, err := h.AddKeyAt(now)
	if err != nil {
		return err
	}
	return h.SetTangent(i, anim.Tangent{
		Kind:     anim.TangentCustom,
		InSlope:  slope,
		OutSlope: slope,
	})
}
