package mirror

import "rig-curve-tools/internal/anim"

// RemapRotation applies flip negations and converts channel-order values
// between two Euler orders. Values are first scattered into an actual
// X/Y/Z triple through the source order's axis table, then gathered back
// out through the target's, so "channel 2" under one order lands on the
// channel that holds the same actual axis under the other.
func RemapRotation(rot [3]float64, flips Flips, src, dst anim.AxisOrder) [3]float64 {
	var flipped [3]float64
	for i := 0; i < 3; i++ {
		if flips[i] {
			flipped[i] = -rot[i]
		} else {
			flipped[i] = rot[i]
		}
	}
	if src == dst {
		return flipped
	}

	srcIdx := src.AxisIndices()
	dstIdx := dst.AxisIndices()

	var actual [3]float64
	for i := 0; i < 3; i++ {
		actual[srcIdx[i]] = flipped[i]
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = actual[dstIdx[i]]
	}
	return out
}

// MirrorPosition applies position flips to a channel triple.
func MirrorPosition(pos [3]float64, flips Flips) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		if flips[i] {
			out[i] = -pos[i]
		} else {
			out[i] = pos[i]
		}
	}
	return out
}
