package scene

import (
	"fmt"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/curve"
	"rig-curve-tools/internal/mathutil"
)

// trackHandle adapts a leaf Track to anim.Handle. This is the only shape
// the engines ever see; the layered indirection is resolved before one is
// built.
type trackHandle struct {
	s    *Scene
	tr   *Track
	name string
}

func (h *trackHandle) Name() string  { return h.name }
func (h *trackHandle) KeyCount() int { return h.tr.Curve.KeyCount() }

func (h *trackHandle) KeyTime(i int) float64 { return h.tr.Curve.Key(i).Time }

func (h *trackHandle) KeyValue(i int) (float64, error) {
	if i < 0 || i >= h.tr.Curve.KeyCount() {
		return 0, fmt.Errorf("scene: %s: key %d out of range", h.name, i)
	}
	return h.tr.Curve.Key(i).Value, nil
}

func (h *trackHandle) KeySelected(i int) bool { return h.tr.Curve.Key(i).Selected }

func (h *trackHandle) SetKeyValue(i int, v float64) error {
	if h.tr.Locked {
		return fmt.Errorf("scene: %s: track locked", h.name)
	}
	if i < 0 || i >= h.tr.Curve.KeyCount() {
		return fmt.Errorf("scene: %s: key %d out of range", h.name, i)
	}
	h.tr.Curve.Key(i).Value = v
	return nil
}

func (h *trackHandle) ValueAt(t float64) float64 { return h.tr.Eval(t) }

func (h *trackHandle) LiveValue(t float64) float64 { return h.tr.Current(t) }

func (h *trackHandle) SetValueAt(t, v float64) error {
	if h.tr.Locked {
		return fmt.Errorf("scene: %s: track locked", h.name)
	}
	if h.s.Animating() {
		h.tr.SetKeyed(t, v)
	} else {
		h.tr.SetLive(v)
	}
	return nil
}

func (h *trackHandle) AddKeyAt(t float64) (int, error) {
	if h.tr.Locked {
		return -1, fmt.Errorf("scene: %s: track locked", h.name)
	}
	return h.tr.Curve.InsertKey(t), nil
}

func (h *trackHandle) KeyTangent(i int) (anim.Tangent, error) {
	if i < 0 || i >= h.tr.Curve.KeyCount() {
		return anim.Tangent{}, fmt.Errorf("scene: %s: key %d out of range", h.name, i)
	}
	return h.tr.Curve.Key(i).Tangent, nil
}

func (h *trackHandle) SetTangent(i int, tan anim.Tangent) error {
	if h.tr.Locked {
		return fmt.Errorf("scene: %s: track locked", h.name)
	}
	if i < 0 || i >= h.tr.Curve.KeyCount() {
		return fmt.Errorf("scene: %s: key %d out of range", h.name, i)
	}
	h.tr.Curve.Key(i).Tangent = tan
	return nil
}

// quatHandle adapts a QuatTrack to anim.QuatHandle.
type quatHandle struct {
	s    *Scene
	qt   *QuatTrack
	name string
}

func (h *quatHandle) Name() string          { return h.name }
func (h *quatHandle) KeyCount() int         { return h.qt.KeyCount() }
func (h *quatHandle) KeyTime(i int) float64 { return h.qt.KeyTime(i) }

func (h *quatHandle) QuatAt(t float64) [4]float64 {
	return [4]float64(h.qt.Eval(t))
}

func (h *quatHandle) SetQuatAt(t float64, q [4]float64) error {
	if h.s.Animating() {
		h.qt.SetKeyed(t, mathutil.Quat(q))
	} else {
		h.qt.SetLive(mathutil.Quat(q))
	}
	return nil
}

// ResolveHandle exposes one leaf track of a node as a Handle. axis is
// ignored for custom attributes (channel "attrs.<container>.<param>").
func (s *Scene) TrackHandle(tr *Track, name string) anim.Handle {
	return &trackHandle{s: s, tr: tr, name: name}
}

var axisNames = [3]string{"x", "y", "z"}

// ChannelSets resolves every parameter group of a node into engine
// handles: position, rotation, scale, then each custom attribute.
func (s *Scene) ChannelSets(n *Node) []anim.ChannelSet {
	var sets []anim.ChannelSet

	vector := func(vc *VectorChannel, kind anim.ChannelKind, prop string) anim.ChannelSet {
		cs := anim.ChannelSet{Owner: n.Name, Kind: kind, Order: anim.OrderXYZ}
		for i, l := range vc.Axes {
			if leaf := l.Leaf(); leaf != nil {
				cs.Axes[i] = &trackHandle{s: s, tr: leaf, name: fmt.Sprintf("%s.%s.%s", n.Name, prop, axisNames[i])}
			}
		}
		return cs
	}

	sets = append(sets, vector(n.Position, anim.ChannelPosition, "position"))

	if n.Rotation.IsEuler() {
		cs := vector(n.Rotation.Euler, anim.ChannelRotation, "rotation")
		cs.Order = n.Rotation.Order
		sets = append(sets, cs)
	} else {
		sets = append(sets, anim.ChannelSet{
			Owner: n.Name,
			Kind:  anim.ChannelRotation,
			Quat:  &quatHandle{s: s, qt: n.Rotation.Quat, name: n.Name + ".rotation"},
		})
	}

	sets = append(sets, vector(n.Scale, anim.ChannelScale, "scale"))

	for _, ac := range n.Attrs {
		for _, pname := range ac.Order {
			sets = append(sets, anim.ChannelSet{
				Owner:  n.Name,
				Kind:   anim.ChannelCustom,
				Scalar: &trackHandle{s: s, tr: ac.Params[pname], name: fmt.Sprintf("%s.attrs.%s.%s", n.Name, ac.Name, pname)},
			})
		}
	}
	return sets
}

// NamedCurve pairs a channel name with its underlying curve, for plot
// and inspection tooling.
type NamedCurve struct {
	Name  string
	Curve *curve.Curve
}

// NamedCurves lists every scalar curve of a node under its channel name.
func (s *Scene) NamedCurves(n *Node) []NamedCurve {
	var out []NamedCurve
	vector := func(vc *VectorChannel, prop string) {
		for i, l := range vc.Axes {
			if leaf := l.Leaf(); leaf != nil {
				out = append(out, NamedCurve{
					Name:  fmt.Sprintf("%s.%s.%s", n.Name, prop, axisNames[i]),
					Curve: leaf.Curve,
				})
			}
		}
	}
	vector(n.Position, "position")
	if n.Rotation.IsEuler() {
		vector(n.Rotation.Euler, "rotation")
	}
	vector(n.Scale, "scale")
	for _, ac := range n.Attrs {
		for _, pname := range ac.Order {
			out = append(out, NamedCurve{
				Name:  fmt.Sprintf("%s.attrs.%s.%s", n.Name, ac.Name, pname),
				Curve: ac.Params[pname].Curve,
			})
		}
	}
	return out
}

// SelectedChannelSets resolves the current selection for a capture.
func (s *Scene) SelectedChannelSets() []anim.ChannelSet {
	var sets []anim.ChannelSet
	for _, n := range s.SelectedNodes() {
		sets = append(sets, s.ChannelSets(n)...)
	}
	return sets
}

// nodeController adapts a Node to the mirror engine's Controller view.
type nodeController struct {
	s *Scene
	n *Node
}

func (c *nodeController) Name() string { return c.n.Name }

func (c *nodeController) WorldPosition() [3]float64 {
	return [3]float64(c.n.WorldPosition(c.s.CurrentTime))
}

func (c *nodeController) WorldAxes() [3][3]float64 {
	axes := c.n.WorldAxes(c.s.CurrentTime)
	return [3][3]float64{axes[0], axes[1], axes[2]}
}

func (c *nodeController) LocalRotation() ([3]float64, bool) {
	if !c.n.Rotation.IsEuler() {
		return [3]float64{}, false
	}
	return [3]float64(c.n.Rotation.Euler.Values(c.s.CurrentTime)), true
}

func (c *nodeController) SetLocalRotation(vals [3]float64) error {
	if !c.n.Rotation.IsEuler() {
		return fmt.Errorf("scene: %s: rotation is not Euler", c.n.Name)
	}
	return c.setVector(c.n.Rotation.Euler, vals)
}

func (c *nodeController) LocalPosition() ([3]float64, bool) {
	return [3]float64(c.n.Position.Values(c.s.CurrentTime)), true
}

func (c *nodeController) SetLocalPosition(vals [3]float64) error {
	return c.setVector(c.n.Position, vals)
}

func (c *nodeController) setVector(vc *VectorChannel, vals [3]float64) error {
	for i, l := range vc.Axes {
		leaf := l.Leaf()
		if leaf == nil {
			return fmt.Errorf("scene: %s: missing axis %d", c.n.Name, i)
		}
		if leaf.Locked {
			return fmt.Errorf("scene: %s: axis %d locked", c.n.Name, i)
		}
		if c.s.Animating() {
			leaf.SetKeyed(c.s.CurrentTime, vals[i])
		} else {
			leaf.SetLive(vals[i])
		}
	}
	return nil
}

func (c *nodeController) RotationOrder() anim.AxisOrder { return c.n.Rotation.Order }

func (c *nodeController) CustomAttrNames() []string {
	var names []string
	for _, ac := range c.n.Attrs {
		names = append(names, ac.Order...)
	}
	return names
}

func (c *nodeController) findAttr(name string) *Track {
	for _, ac := range c.n.Attrs {
		if tr, ok := ac.Params[name]; ok {
			return tr
		}
	}
	return nil
}

func (c *nodeController) CustomAttr(name string) (float64, bool) {
	tr := c.findAttr(name)
	if tr == nil {
		return 0, false
	}
	return tr.Current(c.s.CurrentTime), true
}

func (c *nodeController) SetCustomAttr(name string, v float64) error {
	tr := c.findAttr(name)
	if tr == nil {
		return fmt.Errorf("scene: %s: no attribute %q", c.n.Name, name)
	}
	if tr.Locked {
		return fmt.Errorf("scene: %s: attribute %q locked", c.n.Name, name)
	}
	if c.s.Animating() {
		tr.SetKeyed(c.s.CurrentTime, v)
	} else {
		tr.SetLive(v)
	}
	return nil
}

// Controller exposes a node to the mirror engine.
func (s *Scene) Controller(n *Node) anim.Controller {
	return &nodeController{s: s, n: n}
}

// SelectedControllers resolves the current selection for mirror work.
func (s *Scene) SelectedControllers() []anim.Controller {
	nodes := s.SelectedNodes()
	out := make([]anim.Controller, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, s.Controller(n))
	}
	return out
}
