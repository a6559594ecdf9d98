// Package curve implements the keyed scalar animation curve the in-memory
// host scene is built on: sorted keys with per-key tangent state, cubic
// Hermite evaluation honoring tangent kinds, and value-preserving key
// insertion. It is deliberately minimal, not a general curve library.
package curve

import (
	"fmt"
	"math"
	"sort"

	"rig-curve-tools/internal/anim"
)

// timeEps treats key times closer than this as the same key.
const timeEps = 1e-3

// Key is one keyframe.
type Key struct {
	Time     float64
	Value    float64
	Selected bool
	Tangent  anim.Tangent
}

// Curve holds keys sorted by time.
type Curve struct {
	keys []Key
}

func New() *Curve { return &Curve{} }

func (c *Curve) KeyCount() int { return len(c.keys) }

func (c *Curve) Key(i int) *Key { return &c.keys[i] }

func (c *Curve) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// KeyIndexAt returns the index of the key at time t, if one exists.
func (c *Curve) KeyIndexAt(t float64) (int, bool) {
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time >= t-timeEps })
	if i < len(c.keys) && math.Abs(c.keys[i].Time-t) < timeEps {
		return i, true
	}
	return -1, false
}

// SetKey inserts or updates a key at time t with the given value and auto
// tangents, returning its index.
func (c *Curve) SetKey(t, v float64) int {
	if i, ok := c.KeyIndexAt(t); ok {
		c.keys[i].Value = v
		return i
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time > t })
	k := Key{Time: t, Value: v, Tangent: anim.Tangent{Kind: anim.TangentAuto}}
	c.keys = append(c.keys, Key{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = k
	return i
}

// InsertKey adds a key at time t that preserves the evaluated curve value.
// An existing key at t is left untouched.
func (c *Curve) InsertKey(t float64) int {
	if i, ok := c.KeyIndexAt(t); ok {
		return i
	}
	return c.SetKey(t, c.ValueAt(t))
}

// RemoveKey deletes key i.
func (c *Curve) RemoveKey(i int) error {
	if i < 0 || i >= len(c.keys) {
		return fmt.Errorf("curve: key %d out of range", i)
	}
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	return nil
}

// ValueAt evaluates the curve at time t. Outside the key range the
// endpoint value is held.
func (c *Curve) ValueAt(t float64) float64 {
	n := len(c.keys)
	switch n {
	case 0:
		return 0
	case 1:
		return c.keys[0].Value
	}
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	// Bracketing segment: keys[i] <= t < keys[i+1].
	i := sort.Search(n, func(i int) bool { return c.keys[i].Time > t }) - 1
	a, b := &c.keys[i], &c.keys[i+1]

	dt := b.Time - a.Time
	if dt < timeEps {
		return a.Value
	}
	u := (t - a.Time) / dt

	if a.Tangent.Kind == anim.TangentStep {
		return a.Value
	}
	if a.Tangent.Kind == anim.TangentLinear && b.Tangent.Kind == anim.TangentLinear {
		return a.Value + (b.Value-a.Value)*u
	}

	// Cubic Hermite with the segment's effective slopes.
	m0 := c.EffectiveOutSlope(i) * dt
	m1 := c.EffectiveInSlope(i+1) * dt
	u2 := u * u
	u3 := u2 * u
	return (2*u3-3*u2+1)*a.Value + (u3-2*u2+u)*m0 + (-2*u3+3*u2)*b.Value + (u3-u2)*m1
}

// EffectiveOutSlope resolves key i's outgoing slope per its tangent kind.
func (c *Curve) EffectiveOutSlope(i int) float64 {
	k := &c.keys[i]
	switch k.Tangent.Kind {
	case anim.TangentCustom:
		return k.Tangent.OutSlope
	case anim.TangentFlat, anim.TangentStep:
		return 0
	case anim.TangentLinear:
		if i+1 < len(c.keys) {
			return c.chordSlope(i, i+1)
		}
		return 0
	default: // auto, smooth, fast, slow
		return c.naturalSlope(i)
	}
}

// EffectiveInSlope resolves key i's incoming slope per its tangent kind.
func (c *Curve) EffectiveInSlope(i int) float64 {
	k := &c.keys[i]
	switch k.Tangent.Kind {
	case anim.TangentCustom:
		return k.Tangent.InSlope
	case anim.TangentFlat, anim.TangentStep:
		return 0
	case anim.TangentLinear:
		if i > 0 {
			return c.chordSlope(i-1, i)
		}
		return 0
	default:
		return c.naturalSlope(i)
	}
}

// naturalSlope is the Catmull-Rom slope through neighbors; endpoints use
// the single adjacent chord.
func (c *Curve) naturalSlope(i int) float64 {
	n := len(c.keys)
	switch {
	case n < 2:
		return 0
	case i == 0:
		return c.chordSlope(0, 1)
	case i == n-1:
		return c.chordSlope(n-2, n-1)
	default:
		return c.chordSlope(i-1, i+1)
	}
}

func (c *Curve) chordSlope(i, j int) float64 {
	dt := c.keys[j].Time - c.keys[i].Time
	if math.Abs(dt) < timeEps {
		return 0
	}
	return (c.keys[j].Value - c.keys[i].Value) / dt
}
