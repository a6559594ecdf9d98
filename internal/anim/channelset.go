package anim

// ChannelKind classifies a resolved parameter group. The kind decides the
// tween engine's rest value: 0 for position and custom attributes, the
// identity quaternion for rotation, 1 for scale.
type ChannelKind int

const (
	ChannelPosition ChannelKind = iota
	ChannelRotation
	ChannelScale
	ChannelCustom
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelPosition:
		return "position"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	default:
		return "custom"
	}
}

// RestValue is the per-axis value the Rest tween mode blends toward.
func (k ChannelKind) RestValue() float64 {
	if k == ChannelScale {
		return 1
	}
	return 0
}

// ChannelSet is one resolved parameter group of one rig control: either
// three axis handles (XYZ position/scale, Euler rotation), one quaternion
// handle (non-Euler rotation), or a single scalar handle (custom
// attribute). Exactly one of Axes/Quat/Scalar is populated.
type ChannelSet struct {
	Owner string
	Kind  ChannelKind
	Order AxisOrder // meaningful for Euler rotation only

	Axes   [3]Handle
	Quat   QuatHandle
	Scalar Handle
}

// IsQuat reports whether the set is a whole-quaternion rotation.
func (cs ChannelSet) IsQuat() bool { return cs.Quat != nil }

// ScalarHandles returns every scalar handle in the set, skipping nil axes.
func (cs ChannelSet) ScalarHandles() []Handle {
	if cs.Scalar != nil {
		return []Handle{cs.Scalar}
	}
	var out []Handle
	for _, h := range cs.Axes {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
