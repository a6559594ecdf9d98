package rigdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rig-curve-tools/internal/anim"
)

func sampleDoc() *Doc {
	return &Doc{
		Time:      5,
		Selection: []string{"Root"},
		Nodes: []NodeDoc{
			{
				Name:          "Root",
				RestOffset:    [3]float64{0, 10, 0},
				RotationOrder: "zxy",
				Position: &VectorDoc{
					X: &AxisDoc{Keys: []KeyDoc{
						{T: 0, V: 0},
						{T: 10, V: 4, Sel: true, Tangent: "flat"},
					}},
					Y: &AxisDoc{Locked: true},
					Z: &AxisDoc{Base: 2},
				},
				Attrs: []AttrDoc{
					{Container: "Spread", Name: "amount", Base: 1, Keys: []KeyDoc{{T: 3, V: 7}}},
				},
			},
			{
				Name:          "Head",
				Parent:        "Root",
				RotationOrder: "quaternion",
				QuatKeys: []QuatKeyDoc{
					{T: 0, Q: [4]float64{1, 0, 0, 0}},
				},
			},
		},
	}
}

func TestBuildScene(t *testing.T) {
	s, err := Build(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentTime != 5 {
		t.Errorf("time = %g, want 5", s.CurrentTime)
	}
	if sel := s.Selection(); len(sel) != 1 || sel[0] != "Root" {
		t.Errorf("selection = %v", sel)
	}

	root, ok := s.Node("Root")
	if !ok {
		t.Fatal("Root missing")
	}
	if root.Rotation.Order != anim.OrderZXY {
		t.Errorf("order = %v, want ZXY", root.Rotation.Order)
	}
	x := root.Position.Axes[0].Leaf()
	if x.Curve.KeyCount() != 2 {
		t.Fatalf("x keys = %d", x.Curve.KeyCount())
	}
	k := x.Curve.Key(1)
	if !k.Selected || k.Tangent.Kind != anim.TangentFlat {
		t.Errorf("key = %+v", k)
	}
	if !root.Position.Axes[1].Leaf().Locked {
		t.Error("y not locked")
	}
	if got := root.Position.Axes[2].Leaf().Base; got != 2 {
		t.Errorf("z base = %g", got)
	}
	if len(root.Attrs) != 1 || root.Attrs[0].Params["amount"].Base != 1 {
		t.Errorf("attrs = %+v", root.Attrs)
	}

	head, _ := s.Node("Head")
	if head.Parent != root {
		t.Error("Head not parented to Root")
	}
	if head.Rotation.IsEuler() {
		t.Error("Head rotation should be quaternion")
	}
	if head.Rotation.Quat.KeyCount() != 1 {
		t.Error("quat key missing")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	s, err := Build(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	first := Dump(s)

	s2, err := Build(first)
	if err != nil {
		t.Fatal(err)
	}
	second := Dump(s2)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip drift (-first +second):\n%s", diff)
	}
}

func TestSaveLoadFile(t *testing.T) {
	s, err := Build(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	root, ok := loaded.Node("Root")
	if !ok {
		t.Fatal("Root missing after reload")
	}
	if got := root.Position.Axes[0].Leaf().Curve.KeyCount(); got != 2 {
		t.Errorf("x keys = %d, want 2", got)
	}
	if loaded.CurrentTime != 5 {
		t.Errorf("time = %g", loaded.CurrentTime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("nodes: [pos: {"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed document did not error")
	}
}

func TestLayeredAxis(t *testing.T) {
	doc := &Doc{Nodes: []NodeDoc{{
		Name: "Root",
		Position: &VectorDoc{X: &AxisDoc{
			Layers: []LayerDoc{
				{Base: 0, Keys: []KeyDoc{{T: 0, V: 1}}},
				{Base: 9},
			},
			Active: 1,
		}},
	}}}
	s, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := s.Node("Root")
	l := root.Position.Axes[0]
	if len(l.Layers) != 2 || l.Active != 1 {
		t.Fatalf("layers = %d active = %d", len(l.Layers), l.Active)
	}
	if l.Leaf().Base != 9 {
		t.Errorf("leaf base = %g, want active layer's 9", l.Leaf().Base)
	}

	// Layered stacks survive a dump.
	nd := Dump(s).Nodes[0]
	if nd.Position == nil || nd.Position.X == nil || len(nd.Position.X.Layers) != 2 {
		t.Errorf("dumped axis = %+v", nd.Position)
	}
}

func TestBuildRejectsBadActiveLayer(t *testing.T) {
	doc := &Doc{Nodes: []NodeDoc{{
		Name: "Root",
		Position: &VectorDoc{X: &AxisDoc{
			Layers: []LayerDoc{{Base: 0}},
			Active: 3,
		}},
	}}}
	if _, err := Build(doc); err == nil {
		t.Error("out-of-range active layer accepted")
	}
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	doc := &Doc{Nodes: []NodeDoc{{Name: "Root"}, {Name: "Root"}}}
	if _, err := Build(doc); err == nil {
		t.Error("duplicate node accepted")
	}
}
