package scene

import (
	"sort"

	"rig-curve-tools/internal/curve"
	"rig-curve-tools/internal/mathutil"
)

// Track is one leaf scalar track: a keyed curve plus a live override for
// unkeyed (non-animate) writes. Mirror-engine probes write overrides so
// the world transform responds without touching any key; the next animate
// write clears the override.
type Track struct {
	Curve    *curve.Curve
	Base     float64
	Locked   bool // writes fail, mirroring locked host channels
	override *float64
}

func NewTrack(base float64) *Track {
	return &Track{Curve: curve.New(), Base: base}
}

// Eval evaluates the keyed curve at t, ignoring any live override. Wave
// sampling depends on this staying a pure function of the keys.
func (tr *Track) Eval(t float64) float64 {
	if tr.Curve.KeyCount() > 0 {
		return tr.Curve.ValueAt(t)
	}
	if tr.override != nil {
		return *tr.override
	}
	return tr.Base
}

// Current is the live value at t: the override when present, else Eval.
func (tr *Track) Current(t float64) float64 {
	if tr.override != nil {
		return *tr.override
	}
	return tr.Eval(t)
}

// SetLive writes a value without keying.
func (tr *Track) SetLive(v float64) {
	tr.override = &v
}

// SetKeyed writes a key at t and clears any override.
func (tr *Track) SetKeyed(t, v float64) {
	tr.Curve.SetKey(t, v)
	tr.override = nil
}

func (tr *Track) snapshot() func() {
	keys := tr.Curve.Keys()
	ov := tr.override
	return func() {
		c := curve.New()
		for _, k := range keys {
			i := c.SetKey(k.Time, k.Value)
			*c.Key(i) = k
		}
		tr.Curve = c
		tr.override = ov
	}
}

// Layered models the host's nested "list" indirection: a stack of tracks
// with one active layer. Engines only ever see the resolved leaf.
type Layered struct {
	Layers []*Track
	Active int
}

func NewLayered(base float64) *Layered {
	return &Layered{Layers: []*Track{NewTrack(base)}}
}

// Leaf resolves to the active track.
func (l *Layered) Leaf() *Track {
	if l == nil || len(l.Layers) == 0 {
		return nil
	}
	if l.Active < 0 || l.Active >= len(l.Layers) {
		return l.Layers[0]
	}
	return l.Layers[l.Active]
}

// QuatTrack is a whole-quaternion rotation track: slerped between keys,
// with the same live-override rule as Track.
type QuatTrack struct {
	times    []float64
	quats    []mathutil.Quat
	Base     mathutil.Quat
	override *mathutil.Quat
}

func NewQuatTrack() *QuatTrack {
	return &QuatTrack{Base: mathutil.QuatIdentity()}
}

func (q *QuatTrack) KeyCount() int         { return len(q.times) }
func (q *QuatTrack) KeyTime(i int) float64 { return q.times[i] }

// SetKey inserts or replaces a key at time t.
func (q *QuatTrack) SetKey(t float64, v mathutil.Quat) {
	i := sort.SearchFloat64s(q.times, t)
	if i < len(q.times) && q.times[i] == t {
		q.quats[i] = v
		return
	}
	q.times = append(q.times, 0)
	q.quats = append(q.quats, mathutil.Quat{})
	copy(q.times[i+1:], q.times[i:])
	copy(q.quats[i+1:], q.quats[i:])
	q.times[i] = t
	q.quats[i] = v
}

// Eval slerps between the bracketing keys, holding endpoints.
func (q *QuatTrack) Eval(t float64) mathutil.Quat {
	n := len(q.times)
	if n == 0 {
		if q.override != nil {
			return *q.override
		}
		return q.Base
	}
	if t <= q.times[0] {
		return q.quats[0]
	}
	if t >= q.times[n-1] {
		return q.quats[n-1]
	}
	i := sort.SearchFloat64s(q.times, t) - 1
	span := q.times[i+1] - q.times[i]
	if span <= 0 {
		return q.quats[i]
	}
	return mathutil.Slerp(q.quats[i], q.quats[i+1], (t-q.times[i])/span)
}

func (q *QuatTrack) Current(t float64) mathutil.Quat {
	if q.override != nil {
		return *q.override
	}
	return q.Eval(t)
}

func (q *QuatTrack) SetLive(v mathutil.Quat) { q.override = &v }

func (q *QuatTrack) SetKeyed(t float64, v mathutil.Quat) {
	q.SetKey(t, v)
	q.override = nil
}

func (q *QuatTrack) snapshot() func() {
	times := append([]float64(nil), q.times...)
	quats := append([]mathutil.Quat(nil), q.quats...)
	ov := q.override
	return func() {
		q.times = times
		q.quats = quats
		q.override = ov
	}
}
