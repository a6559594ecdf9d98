// Package mirror implements symmetric-pose tooling: left/right pair
// discovery, geometric axis-flip detection, Euler axis-order remapping,
// pose mirroring/flipping and pose snapshots. Flip detection is purely
// geometric; it never trusts a rig's naming or orientation convention.
package mirror

import (
	"math"
	"strings"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

// Side classifies a controller relative to the rig's mirror plane.
type Side byte

const (
	SideLeft   Side = 'L'
	SideRight  Side = 'R'
	SideCenter Side = 'C'
)

// namePatterns is checked in order, most specific first, so "_Left" wins
// over "_L".
var namePatterns = [][2]string{
	{"_Left", "_Right"},
	{"_left", "_right"},
	{"_LEFT", "_RIGHT"},
	{"Left_", "Right_"},
	{"left_", "right_"},
	{"_Lft", "_Rgt"},
	{"_lft", "_rgt"},
	{"_LFT", "_RGT"},
	{"_L_", "_R_"},
	{"_l_", "_r_"},
	{"_L", "_R"},
	{"_l", "_r"},
	{"L_", "R_"},
	{"l_", "r_"},
	{".L", ".R"},
	{".l", ".r"},
	{"_L.", "_R."},
}

// PositionTolerance bounds the mirrored-position search during pair
// discovery (world units).
const PositionTolerance = 0.5

// MirrorName substitutes the first recognized side marker in name and
// returns the candidate opposite name with the side the marker implies.
// ok is false when the name carries no marker.
func MirrorName(name string) (mirrored string, side Side, ok bool) {
	for _, pat := range namePatterns {
		if strings.Contains(name, pat[0]) {
			return strings.Replace(name, pat[0], pat[1], 1), SideLeft, true
		}
		if strings.Contains(name, pat[1]) {
			return strings.Replace(name, pat[1], pat[0], 1), SideRight, true
		}
	}
	return "", 0, false
}

// HasSideMarker reports whether the name carries any left/right marker.
func HasSideMarker(name string) bool {
	_, _, ok := MirrorName(name)
	return ok
}

// SideByName classifies a name by its marker alone; names without a
// marker are center.
func SideByName(name string) Side {
	if _, side, ok := MirrorName(name); ok {
		return side
	}
	return SideCenter
}

// Pairs is the result of pair discovery over one selection.
type Pairs struct {
	// Pair maps each paired controller name to its opposite, both ways.
	Pair map[string]string
	// Sides holds L/R for paired controllers and C for centers.
	Sides map[string]Side
	// Centers lists unpaired controllers in selection order.
	Centers []string
}

// PairCount is the number of discovered pairs.
func (p *Pairs) PairCount() int { return len(p.Pair) / 2 }

// Discover finds mirror pairs in a selection. Pass 1 matches side
// markers against names present in the selection; pass 2 pairs leftover
// off-center controllers by mirrored world position; everything else is
// a center controller.
func Discover(controllers []anim.Controller) *Pairs {
	return DiscoverWithTolerance(controllers, PositionTolerance)
}

// DiscoverWithTolerance is Discover with an explicit position-matching
// tolerance in world units.
func DiscoverWithTolerance(controllers []anim.Controller, tolerance float64) *Pairs {
	p := &Pairs{Pair: make(map[string]string), Sides: make(map[string]Side)}

	byName := make(map[string]anim.Controller, len(controllers))
	var names []string
	for _, c := range controllers {
		byName[c.Name()] = c
		names = append(names, c.Name())
	}
	paired := make(map[string]bool)

	// Pass 1: name markers.
	for _, name := range names {
		if paired[name] {
			continue
		}
		mirrored, side, ok := MirrorName(name)
		if !ok {
			continue
		}
		if _, exists := byName[mirrored]; !exists || paired[mirrored] {
			continue
		}
		p.Pair[name] = mirrored
		p.Pair[mirrored] = name
		p.Sides[name] = side
		p.Sides[mirrored] = opposite(side)
		paired[name] = true
		paired[mirrored] = true
	}

	// Pass 2: mirrored world position, nearest candidate wins.
	for _, name := range names {
		if paired[name] {
			continue
		}
		pos := mathutil.Vec3(byName[name].WorldPosition())
		if math.Abs(pos[0]) < tolerance {
			continue
		}
		mirrorPos := pos.MirrorX()

		best := ""
		bestDist := tolerance
		for _, other := range names {
			if other == name || paired[other] {
				continue
			}
			if d := mathutil.Vec3(byName[other].WorldPosition()).Sub(mirrorPos).Len(); d < bestDist {
				bestDist = d
				best = other
			}
		}
		if best == "" {
			continue
		}
		side := SideRight
		if pos[0] > 0 {
			side = SideLeft
		}
		p.Pair[name] = best
		p.Pair[best] = name
		p.Sides[name] = side
		p.Sides[best] = opposite(side)
		paired[name] = true
		paired[best] = true
	}

	for _, name := range names {
		if !paired[name] {
			p.Centers = append(p.Centers, name)
			p.Sides[name] = SideCenter
		}
	}
	return p
}

func opposite(s Side) Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideCenter
	}
}
