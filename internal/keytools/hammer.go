package keytools

import (
	"math"

	"rig-curve-tools/internal/anim"
)

// Hammer keys every transform channel of each owner at the union of its
// channels' key times, preserving each curve's evaluated value. Custom
// attributes and quaternion rotation are left alone.
func Hammer(sets []anim.ChannelSet) anim.ApplyReport {
	var report anim.ApplyReport

	byOwner := make(map[string][]anim.Handle)
	var owners []string
	for _, cs := range sets {
		if cs.Kind == anim.ChannelCustom || cs.IsQuat() {
			continue
		}
		if _, ok := byOwner[cs.Owner]; !ok {
			owners = append(owners, cs.Owner)
		}
		byOwner[cs.Owner] = append(byOwner[cs.Owner], cs.ScalarHandles()...)
	}

	for _, owner := range owners {
		handles := byOwner[owner]

		var times []float64
		for _, h := range handles {
			for i := 0; i < h.KeyCount(); i++ {
				t := h.KeyTime(i)
				if !containsTime(times, t) {
					times = append(times, t)
				}
			}
		}

		for _, h := range handles {
			if h.KeyCount() == 0 {
				continue
			}
			for _, t := range times {
				if hasKeyAt(h, t) {
					continue
				}
				if _, err := h.AddKeyAt(t); err != nil {
					report.Failed++
				} else {
					report.Written++
				}
			}
		}
	}
	return report
}

func containsTime(times []float64, t float64) bool {
	for _, x := range times {
		if math.Abs(x-t) < timeEps {
			return true
		}
	}
	return false
}

func hasKeyAt(h anim.Handle, t float64) bool {
	for i := 0; i < h.KeyCount(); i++ {
		if math.Abs(h.KeyTime(i)-t) < timeEps {
			return true
		}
	}
	return false
}
