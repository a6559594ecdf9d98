package mirror

import (
	"fmt"
	"sort"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/mathutil"
)

// ControllerState is one controller's captured channel values.
type ControllerState struct {
	Position    [3]float64
	HasPosition bool
	Rotation    [3]float64
	HasRotation bool

	WorldPosition [3]float64
	Order         anim.AxisOrder
	Attrs         map[string]float64
}

// Snapshot is a named pose capture plus everything pair-related derived
// from it: discovered pairs, flip triples, center classification and
// axis orders. Pairing data lives only here and is invalidated by taking
// a new snapshot, never automatically.
type Snapshot struct {
	Name string
	Time float64

	names  []string
	States map[string]*ControllerState

	Pairs               *Pairs
	RotationFlips       map[string]Flips
	PositionFlips       map[string]Flips
	CenterRotationFlips map[string]Flips
}

// Take captures the given controllers, discovers pairs and probes flip
// patterns for every pair and center.
func Take(name string, controllers []anim.Controller, now float64) *Snapshot {
	s := &Snapshot{
		Name:                name,
		Time:                now,
		States:              make(map[string]*ControllerState),
		RotationFlips:       make(map[string]Flips),
		PositionFlips:       make(map[string]Flips),
		CenterRotationFlips: make(map[string]Flips),
	}

	byName := make(map[string]anim.Controller, len(controllers))
	for _, c := range controllers {
		st := &ControllerState{
			WorldPosition: c.WorldPosition(),
			Order:         c.RotationOrder(),
			Attrs:         make(map[string]float64),
		}
		st.Position, st.HasPosition = c.LocalPosition()
		st.Rotation, st.HasRotation = c.LocalRotation()
		for _, attr := range c.CustomAttrNames() {
			if v, ok := c.CustomAttr(attr); ok {
				st.Attrs[attr] = v
			}
		}
		s.names = append(s.names, c.Name())
		s.States[c.Name()] = st
		byName[c.Name()] = c
	}

	s.Pairs = Discover(controllers)

	for name, pairName := range s.Pairs.Pair {
		if name > pairName {
			continue // probe each pair once
		}
		a, b := byName[name], byName[pairName]
		rot := DetectRotationFlips(a, b)
		pos := DetectPositionFlips(a, b)
		s.RotationFlips[name], s.RotationFlips[pairName] = rot, rot
		s.PositionFlips[name], s.PositionFlips[pairName] = pos, pos
	}
	for _, name := range s.Pairs.Centers {
		s.CenterRotationFlips[name] = DetectCenterRotationFlips(byName[name])
	}
	return s
}

// Names returns the captured controller names in capture order.
func (s *Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// PairOf returns the snapshot pair of a controller name.
func (s *Snapshot) PairOf(name string) (string, bool) {
	p, ok := s.Pairs.Pair[name]
	return p, ok
}

// SideOf returns the controller's side; unknown names count as center.
func (s *Snapshot) SideOf(name string) Side {
	if side, ok := s.Pairs.Sides[name]; ok {
		return side
	}
	return SideCenter
}

func (s *Snapshot) IsCenter(name string) bool { return s.SideOf(name) == SideCenter }

// SetRotationFlips overrides detection for a controller and its pair.
func (s *Snapshot) SetRotationFlips(name string, flips Flips) {
	s.RotationFlips[name] = flips
	if pair, ok := s.Pairs.Pair[name]; ok {
		s.RotationFlips[pair] = flips
	}
}

// SetPositionFlips overrides detection for a controller and its pair.
func (s *Snapshot) SetPositionFlips(name string, flips Flips) {
	s.PositionFlips[name] = flips
	if pair, ok := s.Pairs.Pair[name]; ok {
		s.PositionFlips[pair] = flips
	}
}

// Apply writes the captured pose back onto matching controllers,
// blending with the current pose when blend < 1. Blend is confined to
// [0, 1]; pose blends never extrapolate.
func (s *Snapshot) Apply(controllers []anim.Controller, blend float64) int {
	blend = mathutil.Clamp(blend, 0, 1)
	count := 0
	for _, c := range controllers {
		st, ok := s.States[c.Name()]
		if !ok {
			continue
		}
		if s.writeState(c, st, blend) {
			count++
		}
	}
	return count
}

// ApplyMirrored writes the captured pose mirrored across the given world
// axis (0=X, 1=Y, 2=Z). Position negates the mirror-axis channel;
// rotation negates the two other actual axes, resolved through each
// controller's stored axis order.
func (s *Snapshot) ApplyMirrored(controllers []anim.Controller, mirrorAxis int, blend float64) int {
	blend = mathutil.Clamp(blend, 0, 1)
	count := 0
	for _, c := range controllers {
		st, ok := s.States[c.Name()]
		if !ok {
			continue
		}

		m := *st
		if st.HasPosition {
			m.Position[mirrorAxis] = -st.Position[mirrorAxis]
		}
		if st.HasRotation {
			idx := st.Order.AxisIndices()
			for slot := 0; slot < 3; slot++ {
				if idx[slot] != mirrorAxis {
					m.Rotation[slot] = -st.Rotation[slot]
				}
			}
		}
		if s.writeState(c, &m, blend) {
			count++
		}
	}
	return count
}

// BlendWith writes a lerp of this snapshot toward other.
func (s *Snapshot) BlendWith(other *Snapshot, controllers []anim.Controller, blend float64) int {
	blend = mathutil.Clamp(blend, 0, 1)
	count := 0
	for _, c := range controllers {
		sa, okA := s.States[c.Name()]
		sb, okB := other.States[c.Name()]
		if !okA || !okB {
			continue
		}

		m := *sa
		for i := 0; i < 3; i++ {
			m.Position[i] = mathutil.Lerp(sa.Position[i], sb.Position[i], blend)
			m.Rotation[i] = mathutil.Lerp(sa.Rotation[i], sb.Rotation[i], blend)
		}
		m.Attrs = make(map[string]float64, len(sa.Attrs))
		for attr, va := range sa.Attrs {
			vb, ok := sb.Attrs[attr]
			if !ok {
				vb = va
			}
			m.Attrs[attr] = mathutil.Lerp(va, vb, blend)
		}
		if s.writeState(c, &m, 1) {
			count++
		}
	}
	return count
}

func (s *Snapshot) writeState(c anim.Controller, st *ControllerState, blend float64) bool {
	wrote := false
	if st.HasPosition {
		target := st.Position
		if blend < 1 {
			if cur, ok := c.LocalPosition(); ok {
				for i := 0; i < 3; i++ {
					target[i] = mathutil.Lerp(cur[i], st.Position[i], blend)
				}
			}
		}
		if c.SetLocalPosition(target) == nil {
			wrote = true
		}
	}
	if st.HasRotation {
		target := st.Rotation
		if blend < 1 {
			if cur, ok := c.LocalRotation(); ok {
				for i := 0; i < 3; i++ {
					target[i] = mathutil.Lerp(cur[i], st.Rotation[i], blend)
				}
			}
		}
		if c.SetLocalRotation(target) == nil {
			wrote = true
		}
	}
	for attr, v := range st.Attrs {
		target := v
		if blend < 1 {
			if cur, ok := c.CustomAttr(attr); ok {
				target = mathutil.Lerp(cur, v, blend)
			}
		}
		if c.SetCustomAttr(attr, target) == nil {
			wrote = true
		}
	}
	return wrote
}

// Store keeps named snapshots with one active slot.
type Store struct {
	snaps  map[string]*Snapshot
	order  []string
	active string
}

func NewStore() *Store {
	return &Store{snaps: make(map[string]*Snapshot)}
}

// Take captures a snapshot and makes it active.
func (st *Store) Take(name string, controllers []anim.Controller, now float64) *Snapshot {
	if name == "" {
		name = fmt.Sprintf("Snapshot_%d", len(st.snaps)+1)
	}
	if _, exists := st.snaps[name]; !exists {
		st.order = append(st.order, name)
	}
	snap := Take(name, controllers, now)
	st.snaps[name] = snap
	st.active = name
	return snap
}

func (st *Store) Get(name string) (*Snapshot, bool) {
	s, ok := st.snaps[name]
	return s, ok
}

// Active returns the active snapshot, or nil when none is set.
func (st *Store) Active() *Snapshot {
	return st.snaps[st.active]
}

func (st *Store) SetActive(name string) bool {
	if _, ok := st.snaps[name]; !ok {
		return false
	}
	st.active = name
	return true
}

func (st *Store) List() []string {
	out := append([]string(nil), st.order...)
	sort.Strings(out)
	return out
}

func (st *Store) Delete(name string) {
	delete(st.snaps, name)
	for i, n := range st.order {
		if n == name {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	if st.active == name {
		st.active = ""
	}
}

func (st *Store) Clear() {
	st.snaps = make(map[string]*Snapshot)
	st.order = nil
	st.active = ""
}
