// Package keytools holds the one-shot key utilities: ease, key hammer,
// smart key and the tangent tools. Unlike the drag engines these act
// once per invocation, directly on resolved handles.
package keytools

import (
	"math"

	"rig-curve-tools/internal/anim"
)

const timeEps = 1e-3

// Ease pulls selected keys toward the line between their adjacent keys.
// Positive amounts ease toward the next-neighbor side past the line,
// negative toward the previous side; edge keys ease toward their single
// neighbor.
func Ease(handles []anim.Handle, amount float64) anim.ApplyReport {
	var report anim.ApplyReport
	if math.Abs(amount) < 0.01 {
		return report
	}

	for _, h := range handles {
		if h == nil {
			continue
		}
		easeHandle(h, amount, &report)
	}
	return report
}

func easeHandle(h anim.Handle, amount float64, report *anim.ApplyReport) {
	n := h.KeyCount()
	if n < 2 {
		return
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := h.KeyValue(i)
		if err != nil {
			return
		}
		values[i] = v
	}

	for i := 0; i < n; i++ {
		if !h.KeySelected(i) {
			continue
		}

		newVal := values[i]
		switch {
		case i > 0 && i < n-1:
			span := h.KeyTime(i+1) - h.KeyTime(i-1)
			if math.Abs(span) < timeEps {
				continue
			}
			ratio := (h.KeyTime(i) - h.KeyTime(i-1)) / span
			lin := values[i-1] + ratio*(values[i+1]-values[i-1])
			if amount > 0 {
				newVal = lin + amount*(values[i+1]-lin)
			} else {
				newVal = lin + (-amount)*(values[i-1]-lin)
			}
		case i > 0:
			newVal = values[i] + math.Abs(amount)*(values[i-1]-values[i])
		default:
			newVal = values[i] + math.Abs(amount)*(values[i+1]-values[i])
		}

		if err := h.SetKeyValue(i, newVal); err != nil {
			report.Failed++
		} else {
			report.Written++
		}
	}
}
