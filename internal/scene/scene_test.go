package scene

import (
	"math"
	"testing"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

func TestSelectIgnoresUnknownNames(t *testing.T) {
	s := New()
	if _, err := s.AddNode("Root", ""); err != nil {
		t.Fatal(err)
	}
	s.Select("Root", "Ghost")
	if got := s.Selection(); len(got) != 1 || got[0] != "Root" {
		t.Errorf("selection = %v, want [Root]", got)
	}
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	s := New()
	if _, err := s.AddNode("Root", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNode("Root", ""); err == nil {
		t.Error("duplicate name accepted")
	}
	if _, err := s.AddNode("Child", "Ghost"); err == nil {
		t.Error("missing parent accepted")
	}
}

func TestAnimateModeRoutesWrites(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	tr := n.Position.Axes[0].Leaf()
	h := s.TrackHandle(tr, "Root.position.x")

	// Outside animate mode a write is a live override, no key.
	if err := h.SetValueAt(5, 3); err != nil {
		t.Fatal(err)
	}
	if tr.Curve.KeyCount() != 0 {
		t.Fatal("live write created a key")
	}
	if got := tr.Current(5); got != 3 {
		t.Errorf("Current = %g, want override 3", got)
	}

	// Inside animate mode the same write keys and clears the override.
	s.WithAnimate(func() {
		if err := h.SetValueAt(5, 7); err != nil {
			t.Fatal(err)
		}
	})
	if tr.Curve.KeyCount() != 1 {
		t.Fatal("animate write did not key")
	}
	if got := tr.Eval(5); got != 7 {
		t.Errorf("Eval = %g, want 7", got)
	}
	if got := tr.Current(5); got != 7 {
		t.Errorf("Current = %g, override not cleared", got)
	}
}

func TestLockedTrackRejectsWrites(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	tr := n.Position.Axes[0].Leaf()
	tr.Curve.SetKey(0, 1)
	tr.Locked = true
	h := s.TrackHandle(tr, "Root.position.x")

	if err := h.SetValueAt(0, 9); err == nil {
		t.Error("SetValueAt on locked track succeeded")
	}
	if err := h.SetKeyValue(0, 9); err == nil {
		t.Error("SetKeyValue on locked track succeeded")
	}
	if _, err := h.AddKeyAt(5); err == nil {
		t.Error("AddKeyAt on locked track succeeded")
	}
	if err := h.SetTangent(0, anim.Tangent{Kind: anim.TangentFlat}); err == nil {
		t.Error("SetTangent on locked track succeeded")
	}
	if got := tr.Curve.Key(0).Value; got != 1 {
		t.Errorf("locked value changed to %g", got)
	}
}

func TestUndoRestoresKeysAndOverrides(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	tr := n.Position.Axes[0].Leaf()
	tr.Curve.SetKey(0, 1)
	tr.Curve.SetKey(10, 2)
	tr.SetLive(5)

	s.WithUndo("stomp", func() {
		tr.Curve.SetKey(0, 99)
		tr.SetKeyed(20, 99)
	})
	name, ok := s.UndoLast()
	if !ok || name != "stomp" {
		t.Fatalf("UndoLast = %q, %v", name, ok)
	}

	tr = n.Position.Axes[0].Leaf()
	if tr.Curve.KeyCount() != 2 {
		t.Fatalf("key count = %d, want 2", tr.Curve.KeyCount())
	}
	if got := tr.Curve.Key(0).Value; got != 1 {
		t.Errorf("key value = %g, want 1", got)
	}
	if got := tr.Current(0); got != 5 {
		t.Errorf("Current = %g, override not restored", got)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	s := New()
	if _, ok := s.UndoLast(); ok {
		t.Error("UndoLast on empty stack reported success")
	}
}

func TestChannelSetNames(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	attr := NewAttrContainer("Spread")
	attr.Add("amount", 0)
	n.Attrs = append(n.Attrs, attr)

	sets := s.ChannelSets(n)
	if len(sets) != 4 {
		t.Fatalf("set count = %d, want position/rotation/scale/attr", len(sets))
	}
	if sets[0].Kind != anim.ChannelPosition || sets[0].Axes[1].Name() != "Root.position.y" {
		t.Errorf("position set = %+v", sets[0])
	}
	if sets[1].Kind != anim.ChannelRotation || sets[1].IsQuat() {
		t.Errorf("rotation set = %+v", sets[1])
	}
	if sets[3].Kind != anim.ChannelCustom || sets[3].Scalar.Name() != "Root.attrs.Spread.amount" {
		t.Errorf("attr set = %+v", sets[3])
	}
}

func TestQuatRotationChannelSet(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	n.Rotation = NewQuatRotation()

	sets := s.ChannelSets(n)
	if !sets[1].IsQuat() {
		t.Fatal("quaternion rotation not exposed as quat set")
	}
	if sets[1].Quat.Name() != "Root.rotation" {
		t.Errorf("name = %q", sets[1].Quat.Name())
	}
}

func TestNamedCurves(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	n.Position.Axes[0].Leaf().Curve.SetKey(0, 1)

	var names []string
	for _, nc := range s.NamedCurves(n) {
		names = append(names, nc.Name)
	}
	if len(names) != 9 {
		t.Fatalf("curve count = %d, want 9 transform axes", len(names))
	}
	if names[0] != "Root.position.x" || names[3] != "Root.rotation.x" || names[6] != "Root.scale.x" {
		t.Errorf("names = %v", names)
	}
}

func TestWorldPositionChainsParents(t *testing.T) {
	s := New()
	p, _ := s.AddNode("Hips", "")
	p.RestOffset = mathutil.Vec3{0, 10, 0}
	c, _ := s.AddNode("Chest", "Hips")
	c.RestOffset = mathutil.Vec3{0, 5, 0}

	got := c.WorldPosition(0)
	if got[1] != 15 {
		t.Errorf("world y = %g, want 15", got[1])
	}

	// Rotating the parent 90 about Z swings the child offset onto -X.
	p.Rotation.Euler.Axes[2].Leaf().SetLive(90)
	got = c.WorldPosition(0)
	if math.Abs(got[0]+5) > 1e-9 || math.Abs(got[1]-10) > 1e-9 {
		t.Errorf("world = %v, want {-5 10 0}", got)
	}
}

func TestLayeredLeafActiveLayer(t *testing.T) {
	l := NewLayered(0)
	l.Layers = append(l.Layers, NewTrack(2))
	if l.Leaf() != l.Layers[0] {
		t.Error("default active is not the first layer")
	}
	l.Active = 1
	if l.Leaf() != l.Layers[1] {
		t.Error("active layer not resolved")
	}
	l.Active = 5
	if l.Leaf() != l.Layers[0] {
		t.Error("out-of-range active should fall back to the first layer")
	}
}

func TestWorldAxesRotated(t *testing.T) {
	s := New()
	n, _ := s.AddNode("Root", "")
	n.Rotation.Euler.Axes[2].Leaf().SetLive(90)

	axes := n.WorldAxes(0)
	want := [3]mathutil.Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}
	for i := range axes {
		for j := 0; j < 3; j++ {
			if math.Abs(axes[i][j]-want[i][j]) > 1e-9 {
				t.Errorf("axis %d = %v, want %v", i, axes[i], want[i])
				break
			}
		}
	}
}

func TestRedrawCounter(t *testing.T) {
	s := New()
	if got := s.RedrawCount(); got != 0 {
		t.Fatalf("initial redraws = %d, want 0", got)
	}
	s.RequestRedraw()
	s.RequestRedraw()
	if got := s.RedrawCount(); got != 2 {
		t.Errorf("redraws = %d, want 2", got)
	}
}
