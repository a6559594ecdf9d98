// Package anim defines the resolved-handle abstraction the curve engines
// operate on. Engines never touch scene-graph shapes directly: a host
// adapter resolves selections into Handle / QuatHandle / Controller values
// at capture time, and every engine consumes only these.
package anim

// Handle is one scalar animation curve (one axis of a transform channel,
// or one custom attribute). Key indices are 0-based and ordered by time.
type Handle interface {
	// Name identifies the handle for reports, e.g. "Arm_L.position.x".
	Name() string

	KeyCount() int
	KeyTime(i int) float64
	KeyValue(i int) (float64, error)
	KeySelected(i int) bool
	SetKeyValue(i int, v float64) error

	// ValueAt evaluates the curve at an arbitrary time without moving any
	// time cursor.
	ValueAt(t float64) float64

	// LiveValue is what the parameter currently shows at t, including any
	// unkeyed live edit. Smart keying compares it against ValueAt to
	// decide between a plain key and a curve-preserving one.
	LiveValue(t float64) float64

	// SetValueAt writes a value at the given time. Under animate mode this
	// creates or updates a key (host auto-key semantics); otherwise it only
	// changes the live value.
	SetValueAt(t, v float64) error

	// AddKeyAt forces a key at the given time, preserving the evaluated
	// value. Used by scale writes and the key utilities.
	AddKeyAt(t float64) (int, error)

	KeyTangent(i int) (Tangent, error)
	SetTangent(i int, tan Tangent) error
}

// QuatHandle is a whole-quaternion rotation channel. Rotation that is not
// Euler-decomposed stays quaternion-typed; the tween engine slerps it
// instead of lerping axes.
type QuatHandle interface {
	Name() string
	KeyCount() int
	KeyTime(i int) float64
	QuatAt(t float64) [4]float64
	SetQuatAt(t float64, q [4]float64) error
}
