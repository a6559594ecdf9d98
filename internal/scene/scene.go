// Package scene is the in-memory host the engines and commands run
// against: a node tree with animated transform channels, custom
// attributes, a named selection, a time cursor, scoped animate mode and
// named undo blocks.
package scene

import (
	"fmt"

	"rig-curve-tools/internal/anim"
)

type Scene struct {
	nodes   map[string]*Node
	order   []string
	selects []string

	CurrentTime float64

	animating int
	undoStack []undoEntry
	redraws   int
}

type undoEntry struct {
	name    string
	restore []func()
}

func New() *Scene {
	return &Scene{nodes: make(map[string]*Node)}
}

// AddNode creates a node with default channels (Euler XYZ rotation) and
// attaches it under parent ("" for root).
func (s *Scene) AddNode(name, parent string) (*Node, error) {
	if _, ok := s.nodes[name]; ok {
		return nil, fmt.Errorf("scene: node %q already exists", name)
	}
	n := &Node{
		Name:     name,
		Position: NewVectorChannel(0),
		Rotation: NewEulerRotation(anim.OrderXYZ),
		Scale:    NewVectorChannel(1),
	}
	if parent != "" {
		p, ok := s.nodes[parent]
		if !ok {
			return nil, fmt.Errorf("scene: parent %q not found", parent)
		}
		n.Parent = p
		p.Children = append(p.Children, n)
	}
	s.nodes[name] = n
	s.order = append(s.order, name)
	return n, nil
}

func (s *Scene) Node(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Nodes returns every node in creation order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.nodes[name])
	}
	return out
}

// Select replaces the current selection. Unknown names are ignored.
func (s *Scene) Select(names ...string) {
	s.selects = s.selects[:0]
	for _, name := range names {
		if _, ok := s.nodes[name]; ok {
			s.selects = append(s.selects, name)
		}
	}
}

func (s *Scene) Selection() []string {
	return append([]string(nil), s.selects...)
}

func (s *Scene) SelectedNodes() []*Node {
	out := make([]*Node, 0, len(s.selects))
	for _, name := range s.selects {
		out = append(out, s.nodes[name])
	}
	return out
}

// Animating reports whether writes should create keys.
func (s *Scene) Animating() bool { return s.animating > 0 }

// WithAnimate runs fn with animate mode on; value writes inside become
// keyed writes at their target time.
func (s *Scene) WithAnimate(fn func()) {
	s.animating++
	defer func() { s.animating-- }()
	fn()
}

// WithUndo runs fn inside a named undo block. The whole block reverts as
// one step.
func (s *Scene) WithUndo(name string, fn func()) {
	s.undoStack = append(s.undoStack, undoEntry{name: name, restore: s.snapshotAll()})
	fn()
}

// UndoLast reverts the most recent undo block and returns its name.
func (s *Scene) UndoLast() (string, bool) {
	if len(s.undoStack) == 0 {
		return "", false
	}
	e := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	for _, r := range e.restore {
		r()
	}
	return e.name, true
}

// RequestRedraw marks the viewport dirty. Every operation requests one
// redraw after its writes; the counter stands in for the host viewport.
func (s *Scene) RequestRedraw() { s.redraws++ }

func (s *Scene) RedrawCount() int { return s.redraws }

func (s *Scene) snapshotAll() []func() {
	var restore []func()
	track := func(tr *Track) {
		if tr != nil {
			restore = append(restore, tr.snapshot())
		}
	}
	layered := func(l *Layered) {
		if l == nil {
			return
		}
		for _, tr := range l.Layers {
			track(tr)
		}
	}
	for _, name := range s.order {
		n := s.nodes[name]
		for _, l := range n.Position.Axes {
			layered(l)
		}
		for _, l := range n.Scale.Axes {
			layered(l)
		}
		if n.Rotation.Euler != nil {
			for _, l := range n.Rotation.Euler.Axes {
				layered(l)
			}
		}
		if n.Rotation.Quat != nil {
			restore = append(restore, n.Rotation.Quat.snapshot())
		}
		for _, ac := range n.Attrs {
			for _, pname := range ac.Order {
				track(ac.Params[pname])
			}
		}
	}
	return restore
}
