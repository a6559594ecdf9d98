package mirror

import (
	"fmt"

	"rig-curve-tools/internal/anim"
)

// Engine runs pose-level mirror operations over a selection. When a
// snapshot is attached its cached pairs and flip patterns are consulted
// first; otherwise pairs are discovered and flips probed on the fly,
// cached per unordered pair.
type Engine struct {
	Cache *FlipCache
	Snap  *Snapshot

	// AttrNegate marks custom attributes whose value flips sign when
	// transferred across sides.
	AttrNegate map[string]bool
}

func NewEngine() *Engine {
	return &Engine{Cache: NewFlipCache()}
}

// OpResult summarizes one mirror operation.
type OpResult struct {
	Pairs   int
	Centers int
}

func (r OpResult) String() string {
	if r.Centers > 0 {
		return fmt.Sprintf("%d pairs + %d center", r.Pairs, r.Centers)
	}
	return fmt.Sprintf("%d pairs", r.Pairs)
}

// resolution is the per-operation pairing context.
type resolution struct {
	byName map[string]anim.Controller
	pairs  *Pairs
}

func (e *Engine) resolve(sel []anim.Controller) resolution {
	r := resolution{byName: make(map[string]anim.Controller, len(sel))}
	for _, c := range sel {
		r.byName[c.Name()] = c
	}
	if e.Snap != nil {
		r.pairs = e.Snap.Pairs
	} else {
		r.pairs = Discover(sel)
	}
	return r
}

func (e *Engine) rotationFlips(a, b anim.Controller) Flips {
	if e.Snap != nil {
		if flips, ok := e.Snap.RotationFlips[a.Name()]; ok {
			return flips
		}
	}
	return e.Cache.RotationFlips(a, b)
}

func (e *Engine) positionFlips(a, b anim.Controller) Flips {
	if e.Snap != nil {
		if flips, ok := e.Snap.PositionFlips[a.Name()]; ok {
			return flips
		}
	}
	return defaultPositionFlips
}

func (e *Engine) centerFlips(c anim.Controller) Flips {
	if e.Snap != nil {
		if flips, ok := e.Snap.CenterRotationFlips[c.Name()]; ok {
			return flips
		}
	}
	return defaultCenterFlips
}

// MirrorPose mirrors every paired controller onto its opposite and flips
// center controllers in place.
func (e *Engine) MirrorPose(sel []anim.Controller) OpResult {
	return e.run(sel, 0, true)
}

// MirrorLeftToRight mirrors only left-side controllers onto their right
// pairs.
func (e *Engine) MirrorLeftToRight(sel []anim.Controller) OpResult {
	return e.run(sel, SideLeft, false)
}

// MirrorRightToLeft mirrors only right-side controllers onto their left
// pairs.
func (e *Engine) MirrorRightToLeft(sel []anim.Controller) OpResult {
	return e.run(sel, SideRight, false)
}

func (e *Engine) run(sel []anim.Controller, onlySide Side, centers bool) OpResult {
	res := e.resolve(sel)
	processed := make(map[string]bool)
	var out OpResult

	for _, c := range sel {
		name := c.Name()
		if processed[name] {
			continue
		}

		pairName, hasPair := res.pairs.Pair[name]
		if hasPair {
			pair, inSel := res.byName[pairName]
			processed[name] = true
			processed[pairName] = true
			if !inSel {
				continue
			}
			if onlySide != 0 && res.pairs.Sides[name] != onlySide {
				continue
			}
			e.mirrorOnto(c, pair)
			out.Pairs++
			continue
		}

		processed[name] = true
		if centers && res.pairs.Sides[name] == SideCenter {
			if e.flipCenter(c) {
				out.Centers++
			}
		}
	}
	return out
}

// FlipPose swaps every pair's mirrored poses and flips centers, turning
// the whole pose into its mirror image.
func (e *Engine) FlipPose(sel []anim.Controller) OpResult {
	res := e.resolve(sel)
	processed := make(map[string]bool)
	var out OpResult

	for _, c := range sel {
		name := c.Name()
		if processed[name] {
			continue
		}

		pairName, hasPair := res.pairs.Pair[name]
		if hasPair {
			pair, inSel := res.byName[pairName]
			processed[name] = true
			processed[pairName] = true
			if !inSel {
				continue
			}
			e.swap(c, pair)
			out.Pairs++
			continue
		}

		processed[name] = true
		if res.pairs.Sides[name] == SideCenter {
			if e.flipCenter(c) {
				out.Centers++
			}
		}
	}
	return out
}

// mirrorOnto transfers src's pose to dst with flip negation and axis
// order remapping.
func (e *Engine) mirrorOnto(src, dst anim.Controller) {
	rotFlips := e.rotationFlips(src, dst)
	posFlips := e.positionFlips(src, dst)

	if rot, ok := src.LocalRotation(); ok {
		dst.SetLocalRotation(RemapRotation(rot, rotFlips, src.RotationOrder(), dst.RotationOrder()))
	}
	if pos, ok := src.LocalPosition(); ok {
		dst.SetLocalPosition(MirrorPosition(pos, posFlips))
	}
	e.transferAttrs(src, dst)
}

// swap exchanges the two controllers' mirrored poses.
func (e *Engine) swap(a, b anim.Controller) {
	rotFlips := e.rotationFlips(a, b)
	posFlips := e.positionFlips(a, b)
	orderA, orderB := a.RotationOrder(), b.RotationOrder()

	rotA, okRotA := a.LocalRotation()
	rotB, okRotB := b.LocalRotation()
	posA, okPosA := a.LocalPosition()
	posB, okPosB := b.LocalPosition()

	if okRotA && okRotB {
		a.SetLocalRotation(RemapRotation(rotB, rotFlips, orderB, orderA))
		b.SetLocalRotation(RemapRotation(rotA, rotFlips, orderA, orderB))
	}
	if okPosA && okPosB {
		a.SetLocalPosition(MirrorPosition(posB, posFlips))
		b.SetLocalPosition(MirrorPosition(posA, posFlips))
	}
	e.swapAttrs(a, b)
}

// flipCenter mirrors an unpaired controller in place: detected (or
// default) rotation flips plus an X position negation.
func (e *Engine) flipCenter(c anim.Controller) bool {
	did := false
	if rot, ok := c.LocalRotation(); ok {
		flips := e.centerFlips(c)
		for i := 0; i < 3; i++ {
			if flips[i] {
				rot[i] = -rot[i]
			}
		}
		if c.SetLocalRotation(rot) == nil {
			did = true
		}
	}
	if pos, ok := c.LocalPosition(); ok {
		pos[0] = -pos[0]
		if c.SetLocalPosition(pos) == nil {
			did = true
		}
	}
	return did
}

func (e *Engine) transferAttrs(src, dst anim.Controller) {
	for _, attr := range src.CustomAttrNames() {
		v, ok := src.CustomAttr(attr)
		if !ok {
			continue
		}
		if e.AttrNegate[attr] {
			v = -v
		}
		dst.SetCustomAttr(attr, v)
	}
}

func (e *Engine) swapAttrs(a, b anim.Controller) {
	names := make(map[string]bool)
	for _, n := range a.CustomAttrNames() {
		names[n] = true
	}
	for _, n := range b.CustomAttrNames() {
		names[n] = true
	}
	for attr := range names {
		va, okA := a.CustomAttr(attr)
		vb, okB := b.CustomAttr(attr)
		if !okA || !okB {
			continue
		}
		if e.AttrNegate[attr] {
			va, vb = -va, -vb
		}
		a.SetCustomAttr(attr, vb)
		b.SetCustomAttr(attr, va)
	}
}

// ResetPose restores controllers to the attached snapshot, or to the
// rest pose (zero position and rotation) when no snapshot is set.
func (e *Engine) ResetPose(sel []anim.Controller) int {
	if e.Snap != nil {
		return e.Snap.Apply(sel, 1)
	}
	count := 0
	for _, c := range sel {
		wrote := false
		if _, ok := c.LocalPosition(); ok && c.SetLocalPosition([3]float64{}) == nil {
			wrote = true
		}
		if _, ok := c.LocalRotation(); ok && c.SetLocalRotation([3]float64{}) == nil {
			wrote = true
		}
		if wrote {
			count++
		}
	}
	return count
}

// SelectSide filters names by side classification, for select-left /
// select-right / select-center tooling. A nil snapshot classifies by
// name marker alone.
func SelectSide(snap *Snapshot, names []string, side Side) []string {
	var out []string
	for _, name := range names {
		s := SideByName(name)
		if snap != nil {
			s = snap.SideOf(name)
		}
		if s == side {
			out = append(out, name)
		}
	}
	return out
}

// Opposites maps names to their pairs, dropping unpaired names.
func Opposites(snap *Snapshot, names []string) []string {
	var out []string
	for _, name := range names {
		if snap != nil {
			if pair, ok := snap.PairOf(name); ok {
				out = append(out, pair)
			}
			continue
		}
		if mirrored, _, ok := MirrorName(name); ok {
			out = append(out, mirrored)
		}
	}
	return out
}
