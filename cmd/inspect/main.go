package main

import (
	"fmt"
	"os"

	"rig-curve-tools/internal/rigdoc"
	"rig-curve-tools/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <doc.yaml> [node]")
		os.Exit(1)
	}
	s, err := rigdoc.Load(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	only := ""
	if len(os.Args) > 2 {
		only = os.Args[2]
	}

	fmt.Printf("Nodes: %d, Time: %.1f, Selection: %v\n", len(s.Nodes()), s.CurrentTime, s.Selection())
	for _, n := range s.Nodes() {
		if only != "" && n.Name != only {
			continue
		}
		parent := "-"
		if n.Parent != nil {
			parent = n.Parent.Name
		}
		fmt.Printf("  %s (parent: %s)\n", n.Name, parent)

		printVector("position", n.Position)
		if n.Rotation.IsEuler() {
			fmt.Printf("    rotation order: %v\n", n.Rotation.Order)
			printVector("rotation", n.Rotation.Euler)
		} else {
			fmt.Printf("    rotation: quaternion, %d keys\n", n.Rotation.Quat.KeyCount())
		}
		printVector("scale", n.Scale)

		for _, ac := range n.Attrs {
			for _, pname := range ac.Order {
				tr := ac.Params[pname]
				fmt.Printf("    %s.%s: %d keys\n", ac.Name, pname, tr.Curve.KeyCount())
			}
		}

		wp := n.WorldPosition(s.CurrentTime)
		fmt.Printf("    world: [%.2f, %.2f, %.2f]\n", wp[0], wp[1], wp[2])
	}
}

func printVector(label string, vc *scene.VectorChannel) {
	axes := [3]string{"x", "y", "z"}
	for i, l := range vc.Axes {
		leaf := l.Leaf()
		if leaf == nil || leaf.Curve.KeyCount() == 0 {
			continue
		}
		fmt.Printf("    %s.%s: %d keys", label, axes[i], leaf.Curve.KeyCount())
		if leaf.Locked {
			fmt.Print(" (locked)")
		}
		fmt.Println()
		for _, k := range leaf.Curve.Keys() {
			mark := " "
			if k.Selected {
				mark = "*"
			}
			fmt.Printf("      %s t=%.1f v=%.3f %s\n", mark, k.Time, k.Value, k.Tangent.Kind)
		}
	}
}
