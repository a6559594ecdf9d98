package rigdoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/curve"
	"rig-curve-tools/internal/mathutil"
	"rig-curve-tools/internal/scene"
)

// Load reads a rig document and builds the scene it describes.
func Load(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rigdoc: read %s: %w", path, err)
	}
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rigdoc: parse %s: %w", path, err)
	}
	return Build(&doc)
}

// Build turns a parsed document into a scene.
func Build(doc *Doc) (*scene.Scene, error) {
	s := scene.New()
	s.CurrentTime = doc.Time

	for _, nd := range doc.Nodes {
		n, err := s.AddNode(nd.Name, nd.Parent)
		if err != nil {
			return nil, fmt.Errorf("rigdoc: node %s: %w", nd.Name, err)
		}
		n.RestOffset = mathutil.Vec3(nd.RestOffset)
		n.RestOrient = mathutil.Vec3(nd.RestOrient)

		if nd.RotationOrder == "quaternion" {
			n.Rotation = scene.NewQuatRotation()
			for _, qk := range nd.QuatKeys {
				n.Rotation.Quat.SetKey(qk.T, mathutil.Quat(qk.Q))
			}
		} else {
			n.Rotation = scene.NewEulerRotation(anim.ParseAxisOrder(nd.RotationOrder))
			if nd.Rotation != nil {
				if err := fillVector(n.Rotation.Euler, nd.Rotation, 0); err != nil {
					return nil, fmt.Errorf("rigdoc: node %s rotation: %w", nd.Name, err)
				}
			}
		}

		if nd.Position != nil {
			if err := fillVector(n.Position, nd.Position, 0); err != nil {
				return nil, fmt.Errorf("rigdoc: node %s position: %w", nd.Name, err)
			}
		}
		if nd.Scale != nil {
			if err := fillVector(n.Scale, nd.Scale, 1); err != nil {
				return nil, fmt.Errorf("rigdoc: node %s scale: %w", nd.Name, err)
			}
		}

		containers := make(map[string]*scene.AttrContainer)
		for _, ad := range nd.Attrs {
			ac, ok := containers[ad.Container]
			if !ok {
				ac = scene.NewAttrContainer(ad.Container)
				containers[ad.Container] = ac
				n.Attrs = append(n.Attrs, ac)
			}
			tr := ac.Add(ad.Name, ad.Base)
			fillTrack(tr, ad.Keys)
		}
	}

	s.Select(doc.Selection...)
	return s, nil
}

func fillVector(vc *scene.VectorChannel, vd *VectorDoc, defBase float64) error {
	for i := 0; i < 3; i++ {
		ad := vd.axis(i)
		if ad == nil {
			continue
		}
		l := vc.Axes[i]
		if len(ad.Layers) > 0 {
			l.Layers = l.Layers[:0]
			for _, layer := range ad.Layers {
				tr := scene.NewTrack(layer.Base)
				fillTrack(tr, layer.Keys)
				l.Layers = append(l.Layers, tr)
			}
			if ad.Active < 0 || ad.Active >= len(l.Layers) {
				return fmt.Errorf("axis %d: active layer %d out of range", i, ad.Active)
			}
			l.Active = ad.Active
			continue
		}
		leaf := l.Leaf()
		if ad.Base != 0 || defBase == 0 {
			leaf.Base = ad.Base
		}
		leaf.Locked = ad.Locked
		fillTrack(leaf, ad.Keys)
	}
	return nil
}

func fillTrack(tr *scene.Track, keys []KeyDoc) {
	for _, kd := range keys {
		i := tr.Curve.SetKey(kd.T, kd.V)
		k := tr.Curve.Key(i)
		k.Selected = kd.Sel
		k.Tangent = anim.Tangent{
			Kind:       anim.ParseTangentKind(kd.Tangent),
			InSlope:    kd.InSlope,
			OutSlope:   kd.OutSlope,
			InLength:   kd.InLen,
			OutLength:  kd.OutLen,
			FreeHandle: kd.Free,
		}
	}
}

// Save writes the scene back as a document.
func Save(path string, s *scene.Scene) error {
	doc := Dump(s)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("rigdoc: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("rigdoc: write %s: %w", path, err)
	}
	return nil
}

// Dump converts a scene into its document form.
func Dump(s *scene.Scene) *Doc {
	doc := &Doc{Time: s.CurrentTime, Selection: s.Selection()}

	for _, n := range s.Nodes() {
		nd := NodeDoc{
			Name:       n.Name,
			RestOffset: [3]float64(n.RestOffset),
			RestOrient: [3]float64(n.RestOrient),
		}
		if n.Parent != nil {
			nd.Parent = n.Parent.Name
		}

		nd.Position = dumpVector(n.Position, 0)
		nd.Scale = dumpVector(n.Scale, 1)

		if n.Rotation.IsEuler() {
			nd.RotationOrder = n.Rotation.Order.String()
			nd.Rotation = dumpVector(n.Rotation.Euler, 0)
		} else {
			nd.RotationOrder = "quaternion"
			qt := n.Rotation.Quat
			for i := 0; i < qt.KeyCount(); i++ {
				t := qt.KeyTime(i)
				nd.QuatKeys = append(nd.QuatKeys, QuatKeyDoc{T: t, Q: [4]float64(qt.Eval(t))})
			}
		}

		for _, ac := range n.Attrs {
			for _, pname := range ac.Order {
				tr := ac.Params[pname]
				nd.Attrs = append(nd.Attrs, AttrDoc{
					Container: ac.Name,
					Name:      pname,
					Base:      tr.Base,
					Keys:      dumpKeys(tr.Curve),
				})
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

func dumpVector(vc *scene.VectorChannel, defBase float64) *VectorDoc {
	vd := &VectorDoc{}
	empty := true
	for i := 0; i < 3; i++ {
		l := vc.Axes[i]
		var ad *AxisDoc
		if len(l.Layers) > 1 {
			ad = &AxisDoc{Active: l.Active}
			for _, tr := range l.Layers {
				ad.Layers = append(ad.Layers, LayerDoc{Base: tr.Base, Keys: dumpKeys(tr.Curve)})
			}
		} else {
			leaf := l.Leaf()
			if leaf.Curve.KeyCount() == 0 && leaf.Base == defBase && !leaf.Locked {
				continue
			}
			ad = &AxisDoc{Base: leaf.Base, Locked: leaf.Locked, Keys: dumpKeys(leaf.Curve)}
		}
		empty = false
		switch i {
		case 0:
			vd.X = ad
		case 1:
			vd.Y = ad
		default:
			vd.Z = ad
		}
	}
	if empty {
		return nil
	}
	return vd
}

func dumpKeys(c *curve.Curve) []KeyDoc {
	var out []KeyDoc
	for i := 0; i < c.KeyCount(); i++ {
		k := c.Key(i)
		out = append(out, KeyDoc{
			T:        k.Time,
			V:        k.Value,
			Sel:      k.Selected,
			Tangent:  k.Tangent.Kind.String(),
			InSlope:  k.Tangent.InSlope,
			OutSlope: k.Tangent.OutSlope,
			InLen:    k.Tangent.InLength,
			OutLen:   k.Tangent.OutLength,
			Free:     k.Tangent.FreeHandle,
		})
	}
	return out
}
