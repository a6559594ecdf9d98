package mirror

import (
	"math"
	"testing"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
	"rig-curve-tools/internal/scene"
)

// rig builds a minimal symmetric rig: an identity-oriented arm pair and
// a center spine.
func rig(t *testing.T) (*scene.Scene, map[string]anim.Controller) {
	t.Helper()
	s := scene.New()
	ctrls := make(map[string]anim.Controller)
	for _, spec := range []struct {
		name   string
		offset mathutil.Vec3
	}{
		{"Arm_L", mathutil.Vec3{3, 5, 0}},
		{"Arm_R", mathutil.Vec3{-3, 5, 0}},
		{"Spine", mathutil.Vec3{0, 2, 0}},
	} {
		n, err := s.AddNode(spec.name, "")
		if err != nil {
			t.Fatal(err)
		}
		n.RestOffset = spec.offset
		ctrls[spec.name] = s.Controller(n)
	}
	return s, ctrls
}

func selection(ctrls map[string]anim.Controller, names ...string) []anim.Controller {
	out := make([]anim.Controller, 0, len(names))
	for _, n := range names {
		out = append(out, ctrls[n])
	}
	return out
}

func vecNear(a, b [3]float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestMirrorName(t *testing.T) {
	for _, tc := range []struct {
		name, want string
		side       Side
		ok         bool
	}{
		{"Arm_Left", "Arm_Right", SideLeft, true},
		{"Arm_R", "Arm_L", SideRight, true},
		{"Left_hand", "Right_hand", SideLeft, true},
		{"hand.l", "hand.r", SideLeft, true},
		{"foot_LFT", "foot_RGT", SideLeft, true},
		{"Spine", "", 0, false},
	} {
		got, side, ok := MirrorName(tc.name)
		if got != tc.want || side != tc.side || ok != tc.ok {
			t.Errorf("MirrorName(%q) = %q, %c, %v; want %q, %c, %v",
				tc.name, got, side, ok, tc.want, tc.side, tc.ok)
		}
	}
}

func TestSideByName(t *testing.T) {
	if SideByName("Arm_L") != SideLeft || SideByName("Arm_R") != SideRight || SideByName("Spine") != SideCenter {
		t.Error("side classification by marker failed")
	}
}

func TestDiscoverByName(t *testing.T) {
	_, ctrls := rig(t)
	p := Discover(selection(ctrls, "Arm_L", "Arm_R", "Spine"))

	if p.PairCount() != 1 {
		t.Fatalf("pair count = %d, want 1", p.PairCount())
	}
	if p.Pair["Arm_L"] != "Arm_R" || p.Pair["Arm_R"] != "Arm_L" {
		t.Errorf("pair map = %v", p.Pair)
	}
	if p.Sides["Arm_L"] != SideLeft || p.Sides["Arm_R"] != SideRight {
		t.Errorf("sides = %v", p.Sides)
	}
	if len(p.Centers) != 1 || p.Centers[0] != "Spine" {
		t.Errorf("centers = %v", p.Centers)
	}
}

func TestDiscoverByPosition(t *testing.T) {
	// No side markers; pairing falls back to mirrored world positions.
	s := scene.New()
	ctrls := make(map[string]anim.Controller)
	for _, spec := range []struct {
		name   string
		offset mathutil.Vec3
	}{
		{"HandA", mathutil.Vec3{4, 1, 0}},
		{"HandB", mathutil.Vec3{-4, 1, 0}},
		{"Chest", mathutil.Vec3{0, 3, 0}},
	} {
		n, err := s.AddNode(spec.name, "")
		if err != nil {
			t.Fatal(err)
		}
		n.RestOffset = spec.offset
		ctrls[spec.name] = s.Controller(n)
	}

	p := Discover(selection(ctrls, "HandA", "HandB", "Chest"))
	if p.Pair["HandA"] != "HandB" {
		t.Fatalf("pair map = %v", p.Pair)
	}
	if p.Sides["HandA"] != SideLeft || p.Sides["HandB"] != SideRight {
		t.Errorf("sides = %v", p.Sides)
	}
	if len(p.Centers) != 1 || p.Centers[0] != "Chest" {
		t.Errorf("centers = %v", p.Centers)
	}
}

func TestDetectRotationFlipsIdentityRig(t *testing.T) {
	// Both controllers share world orientation, so mirroring the X axis
	// anti-aligns it and the probe reports X as direct-copy.
	_, ctrls := rig(t)
	a, b := ctrls["Arm_L"], ctrls["Arm_R"]

	a.SetLocalRotation([3]float64{10, 20, 30})
	got := DetectRotationFlips(a, b)
	if got != (Flips{false, true, true}) {
		t.Errorf("flips = %v, want {false true true}", got)
	}
	// Symmetric and non-destructive.
	if got2 := DetectRotationFlips(b, a); got2 != got {
		t.Errorf("reversed probe = %v, want %v", got2, got)
	}
	if rot, _ := a.LocalRotation(); !vecNear(rot, [3]float64{10, 20, 30}) {
		t.Errorf("probe did not restore rotation: %v", rot)
	}
}

func TestDetectRotationFlipsOpposedRig(t *testing.T) {
	s := scene.New()
	nl, _ := s.AddNode("Wing_L", "")
	nr, _ := s.AddNode("Wing_R", "")
	nr.RestOrient = mathutil.Vec3{0, 0, 180}

	got := DetectRotationFlips(s.Controller(nl), s.Controller(nr))
	if got != (Flips{true, false, true}) {
		t.Errorf("flips = %v, want {true false true}", got)
	}
}

func TestDetectPositionFlipsIdentityRig(t *testing.T) {
	_, ctrls := rig(t)
	got := DetectPositionFlips(ctrls["Arm_L"], ctrls["Arm_R"])
	if got != defaultPositionFlips {
		t.Errorf("flips = %v, want %v", got, defaultPositionFlips)
	}
}

func TestRemapRotation(t *testing.T) {
	rot := [3]float64{10, 20, 30}
	flips := Flips{true, false, true}

	once := RemapRotation(rot, flips, anim.OrderXYZ, anim.OrderXYZ)
	if !vecNear(once, [3]float64{-10, 20, -30}) {
		t.Errorf("flipped = %v", once)
	}
	// Same flips twice is the identity.
	if twice := RemapRotation(once, flips, anim.OrderXYZ, anim.OrderXYZ); !vecNear(twice, rot) {
		t.Errorf("double flip = %v, want %v", twice, rot)
	}

	// Cross-order: channel values land on the slot holding the same
	// actual axis.
	swapped := RemapRotation(rot, Flips{}, anim.OrderXYZ, anim.OrderZYX)
	if !vecNear(swapped, [3]float64{30, 20, 10}) {
		t.Errorf("remapped = %v, want {30 20 10}", swapped)
	}
}

func TestMirrorPositionDoubleApply(t *testing.T) {
	pos := [3]float64{1, -2, 3}
	flips := Flips{true, false, true}
	if got := MirrorPosition(MirrorPosition(pos, flips), flips); !vecNear(got, pos) {
		t.Errorf("double apply = %v, want %v", got, pos)
	}
}

func TestFlipCacheManualOverride(t *testing.T) {
	_, ctrls := rig(t)
	fc := NewFlipCache()
	want := Flips{true, true, true}
	fc.Set("Arm_R", "Arm_L", want)

	// The unordered key makes either argument order hit the entry.
	if got := fc.RotationFlips(ctrls["Arm_L"], ctrls["Arm_R"]); got != want {
		t.Errorf("flips = %v, want manual %v", got, want)
	}
	fc.Clear()
	if got := fc.RotationFlips(ctrls["Arm_L"], ctrls["Arm_R"]); got == want {
		t.Error("clear did not drop the manual entry")
	}
}

func TestEngineMirrorLeftToRight(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Arm_R", "Spine")
	ctrls["Arm_L"].SetLocalRotation([3]float64{10, 20, 30})
	ctrls["Arm_L"].SetLocalPosition([3]float64{1, 2, 3})

	eng := NewEngine()
	res := eng.MirrorLeftToRight(sel)
	if res.Pairs != 1 || res.Centers != 0 {
		t.Fatalf("result = %+v, want 1 pair", res)
	}

	rot, _ := ctrls["Arm_R"].LocalRotation()
	if !vecNear(rot, [3]float64{10, -20, -30}) {
		t.Errorf("mirrored rotation = %v, want {10 -20 -30}", rot)
	}
	pos, _ := ctrls["Arm_R"].LocalPosition()
	if !vecNear(pos, [3]float64{-1, 2, 3}) {
		t.Errorf("mirrored position = %v, want {-1 2 3}", pos)
	}
	// Source side untouched.
	rot, _ = ctrls["Arm_L"].LocalRotation()
	if !vecNear(rot, [3]float64{10, 20, 30}) {
		t.Errorf("source rotation changed: %v", rot)
	}
}

func TestEngineFlipPose(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Arm_R", "Spine")
	ctrls["Arm_L"].SetLocalRotation([3]float64{10, 20, 30})
	ctrls["Arm_L"].SetLocalPosition([3]float64{1, 2, 3})
	ctrls["Spine"].SetLocalRotation([3]float64{5, 10, 15})
	ctrls["Spine"].SetLocalPosition([3]float64{2, 0, 0})

	eng := NewEngine()
	res := eng.FlipPose(sel)
	if res.Pairs != 1 || res.Centers != 1 {
		t.Fatalf("result = %+v, want 1 pair + 1 center", res)
	}

	// The posed side's values land mirrored on the opposite; the opposite
	// side's rest pose comes back mirrored, which is still rest.
	rot, _ := ctrls["Arm_R"].LocalRotation()
	if !vecNear(rot, [3]float64{10, -20, -30}) {
		t.Errorf("Arm_R rotation = %v", rot)
	}
	rot, _ = ctrls["Arm_L"].LocalRotation()
	if !vecNear(rot, [3]float64{0, 0, 0}) {
		t.Errorf("Arm_L rotation = %v, want rest", rot)
	}
	pos, _ := ctrls["Arm_R"].LocalPosition()
	if !vecNear(pos, [3]float64{-1, 2, 3}) {
		t.Errorf("Arm_R position = %v", pos)
	}

	// Center flips in place: default center flips plus X negation.
	rot, _ = ctrls["Spine"].LocalRotation()
	if !vecNear(rot, [3]float64{5, -10, -15}) {
		t.Errorf("Spine rotation = %v", rot)
	}
	pos, _ = ctrls["Spine"].LocalPosition()
	if !vecNear(pos, [3]float64{-2, 0, 0}) {
		t.Errorf("Spine position = %v", pos)
	}
}

func TestResetPoseWithoutSnapshot(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Spine")
	ctrls["Arm_L"].SetLocalRotation([3]float64{10, 20, 30})
	ctrls["Spine"].SetLocalPosition([3]float64{2, 0, 0})

	eng := NewEngine()
	if n := eng.ResetPose(sel); n != 2 {
		t.Fatalf("reset count = %d, want 2", n)
	}
	rot, _ := ctrls["Arm_L"].LocalRotation()
	pos, _ := ctrls["Spine"].LocalPosition()
	if !vecNear(rot, [3]float64{}) || !vecNear(pos, [3]float64{}) {
		t.Errorf("pose not zeroed: rot %v pos %v", rot, pos)
	}
}

func TestSnapshotTakeAndReset(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Arm_R", "Spine")
	ctrls["Arm_L"].SetLocalRotation([3]float64{10, 0, 0})

	snap := Take("pose", sel, 0)
	if pair, ok := snap.PairOf("Arm_L"); !ok || pair != "Arm_R" {
		t.Fatalf("PairOf = %q, %v", pair, ok)
	}
	if !snap.IsCenter("Spine") {
		t.Error("Spine not classified center")
	}
	if got := snap.RotationFlips["Arm_L"]; got != (Flips{false, true, true}) {
		t.Errorf("rotation flips = %v", got)
	}
	if got := snap.RotationFlips["Arm_R"]; got != snap.RotationFlips["Arm_L"] {
		t.Errorf("pair flip entries differ: %v", got)
	}
	if got := snap.PositionFlips["Arm_L"]; got != defaultPositionFlips {
		t.Errorf("position flips = %v", got)
	}
	if got := snap.CenterRotationFlips["Spine"]; got != (Flips{false, false, true}) {
		t.Errorf("center flips = %v", got)
	}

	ctrls["Arm_L"].SetLocalRotation([3]float64{99, 99, 99})
	eng := NewEngine()
	eng.Snap = snap
	if n := eng.ResetPose(sel); n != 3 {
		t.Fatalf("reset count = %d, want 3", n)
	}
	rot, _ := ctrls["Arm_L"].LocalRotation()
	if !vecNear(rot, [3]float64{10, 0, 0}) {
		t.Errorf("rotation = %v, want snapshot pose", rot)
	}
}

func TestSnapshotApplyMirrored(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Spine")
	ctrls["Spine"].SetLocalRotation([3]float64{10, 20, 30})
	ctrls["Spine"].SetLocalPosition([3]float64{1, 2, 3})

	snap := Take("pose", sel, 0)
	if n := snap.ApplyMirrored(sel, 0, 1); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	rot, _ := ctrls["Spine"].LocalRotation()
	if !vecNear(rot, [3]float64{10, -20, -30}) {
		t.Errorf("rotation = %v, want {10 -20 -30}", rot)
	}
	pos, _ := ctrls["Spine"].LocalPosition()
	if !vecNear(pos, [3]float64{-1, 2, 3}) {
		t.Errorf("position = %v, want {-1 2 3}", pos)
	}
}

func TestSnapshotBlend(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Spine")

	snapA := Take("a", sel, 0)
	ctrls["Spine"].SetLocalPosition([3]float64{2, 4, 6})
	snapB := Take("b", sel, 0)

	if n := snapA.BlendWith(snapB, sel, 0.5); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	pos, _ := ctrls["Spine"].LocalPosition()
	if !vecNear(pos, [3]float64{1, 2, 3}) {
		t.Errorf("blended position = %v, want {1 2 3}", pos)
	}
}

func TestSnapshotStore(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Arm_R")

	st := NewStore()
	st.Take("", sel, 0)
	snap := st.Take("pose", sel, 5)
	if st.Active() != snap {
		t.Error("latest take not active")
	}
	if got := st.List(); len(got) != 2 {
		t.Fatalf("list = %v", got)
	}
	if !st.SetActive("Snapshot_1") {
		t.Fatal("SetActive failed")
	}
	st.Delete("Snapshot_1")
	if st.Active() != nil {
		t.Error("deleting the active snapshot should clear the slot")
	}
}

func TestSelectSideAndOpposites(t *testing.T) {
	names := []string{"Arm_L", "Arm_R", "Spine"}
	if got := SelectSide(nil, names, SideLeft); len(got) != 1 || got[0] != "Arm_L" {
		t.Errorf("left = %v", got)
	}
	if got := SelectSide(nil, names, SideCenter); len(got) != 1 || got[0] != "Spine" {
		t.Errorf("center = %v", got)
	}
	if got := Opposites(nil, []string{"Arm_L", "Spine"}); len(got) != 1 || got[0] != "Arm_R" {
		t.Errorf("opposites = %v", got)
	}
}

func TestSnapshotNames(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Arm_L", "Arm_R", "Spine")
	snap := Take("pose", sel, 0)

	got := snap.Names()
	want := []string{"Arm_L", "Arm_R", "Spine"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}

func TestSnapshotBlendClampsAmount(t *testing.T) {
	_, ctrls := rig(t)
	sel := selection(ctrls, "Spine")

	snapA := Take("a", sel, 0)
	ctrls["Spine"].SetLocalPosition([3]float64{2, 4, 6})
	snapB := Take("b", sel, 0)

	// Overdriven blend lands exactly on the target pose, no extrapolation.
	if n := snapA.BlendWith(snapB, sel, 3); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	pos, _ := ctrls["Spine"].LocalPosition()
	if !vecNear(pos, [3]float64{2, 4, 6}) {
		t.Errorf("blended position = %v, want {2 4 6}", pos)
	}
}
