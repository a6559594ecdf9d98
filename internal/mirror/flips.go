package mirror

import (
	"sort"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

// Flips marks which axes must be sign-negated when transferring a value
// between two sides. true = negate, false = copy directly.
type Flips [3]bool

// Fallback patterns when a controller cannot be probed.
var (
	defaultRotationFlips = Flips{true, false, false}
	defaultPositionFlips = Flips{true, false, false}
	defaultCenterFlips   = Flips{false, true, true}
)

const (
	positionProbe = 5.0  // test displacement, world units
	rotationProbe = 30.0 // center-controller test rotation, degrees
	axisProbeLen  = 10.0 // reference point offset along local Y
)

// pairKey identifies an unordered controller pair.
type pairKey [2]string

func keyFor(a, b string) pairKey {
	names := []string{a, b}
	sort.Strings(names)
	return pairKey{names[0], names[1]}
}

// FlipCache stores detected rotation flips per unordered pair. It is
// invalidated only explicitly, never automatically.
type FlipCache struct {
	rot map[pairKey]Flips
}

func NewFlipCache() *FlipCache {
	return &FlipCache{rot: make(map[pairKey]Flips)}
}

func (fc *FlipCache) Clear() {
	fc.rot = make(map[pairKey]Flips)
}

// Set records a manual flip pattern for a pair, overriding detection.
func (fc *FlipCache) Set(a, b string, flips Flips) {
	fc.rot[keyFor(a, b)] = flips
}

// RotationFlips returns the cached pattern for a pair, probing once on a
// miss. Symmetric: (A,B) and (B,A) share one entry.
func (fc *FlipCache) RotationFlips(a, b anim.Controller) Flips {
	key := keyFor(a.Name(), b.Name())
	if flips, ok := fc.rot[key]; ok {
		return flips
	}
	flips := DetectRotationFlips(a, b)
	fc.rot[key] = flips
	return flips
}

// DetectRotationFlips zeroes both controllers, compares their world-space
// basis axes across the mirror plane and restores them. A positive dot
// between A's mirrored axis and B's axis means the axis is symmetric and
// its value must be negated when copied; a negative dot means copy
// directly. Operating on basis vectors keeps this independent of Euler
// order.
func DetectRotationFlips(a, b anim.Controller) Flips {
	origA, okA := a.LocalRotation()
	origB, okB := b.LocalRotation()
	if !okA || !okB {
		return defaultRotationFlips
	}

	zero := [3]float64{}
	if a.SetLocalRotation(zero) != nil || b.SetLocalRotation(zero) != nil {
		return defaultRotationFlips
	}
	axesA := a.WorldAxes()
	axesB := b.WorldAxes()
	a.SetLocalRotation(origA)
	b.SetLocalRotation(origB)

	var flips Flips
	for i := 0; i < 3; i++ {
		mirrored := mathutil.Vec3(axesA[i]).MirrorX().Normalize()
		axisB := mathutil.Vec3(axesB[i]).Normalize()
		flips[i] = mirrored.Dot(axisB) > 0
	}
	return flips
}

// DetectPositionFlips probes each position axis empirically: displace A
// by +5, displace B by +5 and -5, and keep whichever of B's world-space
// movements lands closer to A's mirrored movement.
func DetectPositionFlips(a, b anim.Controller) Flips {
	savedA, okA := a.LocalPosition()
	savedB, okB := b.LocalPosition()
	if !okA || !okB {
		return defaultPositionFlips
	}

	zero := [3]float64{}
	if a.SetLocalPosition(zero) != nil || b.SetLocalPosition(zero) != nil {
		return defaultPositionFlips
	}
	zeroA := mathutil.Vec3(a.WorldPosition())
	zeroB := mathutil.Vec3(b.WorldPosition())

	var flips Flips
	for axis := 0; axis < 3; axis++ {
		var test [3]float64
		test[axis] = positionProbe
		a.SetLocalPosition(test)
		moveAMir := mathutil.Vec3(a.WorldPosition()).Sub(zeroA).MirrorX()

		b.SetLocalPosition(test)
		moveCopy := mathutil.Vec3(b.WorldPosition()).Sub(zeroB)

		test[axis] = -positionProbe
		b.SetLocalPosition(test)
		moveNeg := mathutil.Vec3(b.WorldPosition()).Sub(zeroB)

		flips[axis] = moveNeg.Sub(moveAMir).Len() < moveCopy.Sub(moveAMir).Len()

		a.SetLocalPosition(zero)
		b.SetLocalPosition(zero)
	}

	a.SetLocalPosition(savedA)
	b.SetLocalPosition(savedB)
	return flips
}

// DetectCenterRotationFlips probes a center controller against its own
// mirror image: rotate ±30° per axis at zero pose and pick whichever
// sign moves a reference point closer to the mirrored displacement.
func DetectCenterRotationFlips(c anim.Controller) Flips {
	saved, ok := c.LocalRotation()
	if !ok {
		return defaultCenterFlips
	}

	zero := [3]float64{}
	if c.SetLocalRotation(zero) != nil {
		return defaultCenterFlips
	}

	// Reference point off the pivot along local Y, so rotation moves it.
	testPoint := func() mathutil.Vec3 {
		axes := c.WorldAxes()
		return mathutil.Vec3(c.WorldPosition()).Add(mathutil.Vec3(axes[1]).Scale(axisProbeLen))
	}
	zeroPoint := testPoint()

	var flips Flips
	for axis := 0; axis < 3; axis++ {
		var test [3]float64
		test[axis] = rotationProbe
		c.SetLocalRotation(test)
		posMove := testPoint().Sub(zeroPoint)

		test[axis] = -rotationProbe
		c.SetLocalRotation(test)
		negMove := testPoint().Sub(zeroPoint)

		c.SetLocalRotation(zero)

		mirrored := posMove.MirrorX()
		flips[axis] = mirrored.Sub(negMove).Len() < mirrored.Sub(posMove).Len()
	}

	c.SetLocalRotation(saved)
	return flips
}
