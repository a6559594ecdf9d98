// Package rigdoc reads and writes rig/clip documents: a YAML node tree
// with channels, keys, selection and a time cursor. Load builds a
// scene, Save writes one back, so the command-line tools operate as
// closed loops on disk.
package rigdoc

// Doc is the YAML document root.
type Doc struct {
	Time      float64   `yaml:"time"`
	Selection []string  `yaml:"selection,omitempty"`
	Nodes     []NodeDoc `yaml:"nodes"`
}

type NodeDoc struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`

	RestOffset [3]float64 `yaml:"rest_offset,omitempty"`
	RestOrient [3]float64 `yaml:"rest_orient,omitempty"`

	// RotationOrder is one of xyz/xzy/yzx/yxz/zxy/zyx, or "quaternion"
	// for a whole-quaternion rotation track.
	RotationOrder string `yaml:"rotation_order,omitempty"`

	Position *VectorDoc   `yaml:"position,omitempty"`
	Rotation *VectorDoc   `yaml:"rotation,omitempty"`
	QuatKeys []QuatKeyDoc `yaml:"quat_keys,omitempty"`
	Scale    *VectorDoc   `yaml:"scale,omitempty"`

	Attrs []AttrDoc `yaml:"attrs,omitempty"`
}

type VectorDoc struct {
	X *AxisDoc `yaml:"x,omitempty"`
	Y *AxisDoc `yaml:"y,omitempty"`
	Z *AxisDoc `yaml:"z,omitempty"`
}

func (v *VectorDoc) axis(i int) *AxisDoc {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// AxisDoc is one axis track. Either Keys describes a single-layer track,
// or Layers describes a layered stack with an active index.
type AxisDoc struct {
	Base   float64  `yaml:"base,omitempty"`
	Locked bool     `yaml:"locked,omitempty"`
	Keys   []KeyDoc `yaml:"keys,omitempty"`

	Layers []LayerDoc `yaml:"layers,omitempty"`
	Active int        `yaml:"active,omitempty"`
}

type LayerDoc struct {
	Base float64  `yaml:"base,omitempty"`
	Keys []KeyDoc `yaml:"keys,omitempty"`
}

type KeyDoc struct {
	T   float64 `yaml:"t"`
	V   float64 `yaml:"v"`
	Sel bool    `yaml:"sel,omitempty"`

	Tangent  string  `yaml:"tangent,omitempty"`
	InSlope  float64 `yaml:"in_slope,omitempty"`
	OutSlope float64 `yaml:"out_slope,omitempty"`
	InLen    float64 `yaml:"in_len,omitempty"`
	OutLen   float64 `yaml:"out_len,omitempty"`
	Free     bool    `yaml:"free,omitempty"`
}

type QuatKeyDoc struct {
	T float64    `yaml:"t"`
	Q [4]float64 `yaml:"q"`
}

type AttrDoc struct {
	Container string   `yaml:"container"`
	Name      string   `yaml:"name"`
	Base      float64  `yaml:"base,omitempty"`
	Keys      []KeyDoc `yaml:"keys,omitempty"`
}
