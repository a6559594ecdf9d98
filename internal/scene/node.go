package scene

import (
	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

// VectorChannel is a 3-axis transform channel (position, scale, Euler
// rotation). Each axis is a layered stack resolved to a leaf track.
type VectorChannel struct {
	Axes [3]*Layered
}

func NewVectorChannel(base float64) *VectorChannel {
	return &VectorChannel{Axes: [3]*Layered{
		NewLayered(base), NewLayered(base), NewLayered(base),
	}}
}

// Values evaluates the three leaf tracks at t (live overrides included).
func (vc *VectorChannel) Values(t float64) mathutil.Vec3 {
	var v mathutil.Vec3
	for i, l := range vc.Axes {
		if leaf := l.Leaf(); leaf != nil {
			v[i] = leaf.Current(t)
		}
	}
	return v
}

// RotationChannel is either Euler-decomposed (three layered axis tracks
// plus an axis order) or quaternion-typed. Exactly one of Euler/Quat is
// set.
type RotationChannel struct {
	Euler *VectorChannel
	Order anim.AxisOrder
	Quat  *QuatTrack
}

func NewEulerRotation(order anim.AxisOrder) *RotationChannel {
	return &RotationChannel{Euler: NewVectorChannel(0), Order: order}
}

func NewQuatRotation() *RotationChannel {
	return &RotationChannel{Quat: NewQuatTrack(), Order: anim.OrderXYZ}
}

func (rc *RotationChannel) IsEuler() bool { return rc.Euler != nil }

// Matrix evaluates the channel's rotation at t.
func (rc *RotationChannel) Matrix(t float64) mathutil.Mat3 {
	if rc.Quat != nil {
		return mathutil.QuatToMat3(rc.Quat.Current(t))
	}
	vals := rc.Euler.Values(t)
	return eulerMatrix(vals, rc.Order)
}

// eulerMatrix composes per-channel rotations (degrees) in the order's
// axis sequence, first channel applied first.
func eulerMatrix(vals mathutil.Vec3, order anim.AxisOrder) mathutil.Mat3 {
	idx := order.AxisIndices()
	m := mathutil.Mat3Identity()
	for slot := 0; slot < 3; slot++ {
		m = mathutil.Mat3Mul(mathutil.RotAxis(idx[slot], mathutil.Deg2Rad(vals[slot])), m)
	}
	return m
}

// AttrContainer is one custom-attribute block on a node.
type AttrContainer struct {
	Name   string
	Order  []string
	Params map[string]*Track
}

func NewAttrContainer(name string) *AttrContainer {
	return &AttrContainer{Name: name, Params: make(map[string]*Track)}
}

func (ac *AttrContainer) Add(name string, base float64) *Track {
	tr := NewTrack(base)
	ac.Order = append(ac.Order, name)
	ac.Params[name] = tr
	return tr
}

// Node is one rig control in the scene tree. RestOffset and RestOrient
// place the control's zero pose; the animated channels move it from
// there.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	RestOffset mathutil.Vec3
	RestOrient mathutil.Vec3 // degrees, XYZ

	Position *VectorChannel
	Rotation *RotationChannel
	Scale    *VectorChannel

	Attrs []*AttrContainer
}

// localMatrix is rest * animated: T(rest+pos) R(rest) R(anim) S(scale).
func (n *Node) localMatrix(t float64) mathutil.Mat4 {
	pos := n.Position.Values(t)
	rot := mathutil.Mat3Mul(eulerMatrix(n.RestOrient, anim.OrderXYZ), n.Rotation.Matrix(t))
	scl := n.Scale.Values(t)
	rs := mathutil.Mat3Mul(rot, mathutil.Mat3Diag(scl[0], scl[1], scl[2]))
	return mathutil.FromMat3Translation(rs, n.RestOffset.Add(pos))
}

// WorldMatrix chains local transforms up the parent chain.
func (n *Node) WorldMatrix(t float64) mathutil.Mat4 {
	m := n.localMatrix(t)
	for p := n.Parent; p != nil; p = p.Parent {
		m = mathutil.Mat4Mul(p.localMatrix(t), m)
	}
	return m
}

// WorldPosition is the node pivot in world space at t.
func (n *Node) WorldPosition(t float64) mathutil.Vec3 {
	return n.WorldMatrix(t).MulPoint(mathutil.Vec3{})
}

// WorldAxes returns the local X/Y/Z basis vectors in world space at t.
func (n *Node) WorldAxes(t float64) [3]mathutil.Vec3 {
	r := n.WorldMatrix(t).Rotation()
	var axes [3]mathutil.Vec3
	for i := 0; i < 3; i++ {
		var unit mathutil.Vec3
		unit[i] = 1
		axes[i] = r.MulVec3(unit).Normalize()
	}
	return axes
}
