package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/keytools"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	tool := flag.String("tool", "", "Tool: kind, cycle, guess, polished, flow, bounce, bounce-in, bounce-out")
	kind := flag.String("kind", "auto", "Tangent kind for -tool kind: auto, smooth, linear, flat, step, fast, slow")
	sel := flag.String("select", "", "Comma-separated node names (default: document selection)")

	flag.Parse()

	if *docPath == "" || *tool == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc and -tool are required")
		os.Exit(1)
	}

	s, err := rigdoc.Load(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *sel != "" {
		s.Select(strings.Split(*sel, ",")...)
	}

	var handles []anim.Handle
	for _, cs := range s.SelectedChannelSets() {
		handles = append(handles, cs.ScalarHandles()...)
	}

	var report anim.ApplyReport
	s.WithUndo("tangents "+*tool, func() {
		switch *tool {
		case "kind":
			report = keytools.SetKind(handles, anim.ParseTangentKind(*kind))
		case "cycle":
			report = keytools.CycleMatch(handles)
		case "guess":
			report = keytools.BestGuess(handles)
		case "polished":
			report = keytools.Polished(handles)
		case "flow":
			report = keytools.Flow(handles)
		case "bounce":
			report = keytools.Bounce(handles, keytools.BounceBoth)
		case "bounce-in":
			report = keytools.Bounce(handles, keytools.BounceIn)
		case "bounce-out":
			report = keytools.Bounce(handles, keytools.BounceOut)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown tool %q\n", *tool)
			os.Exit(1)
		}
	})
	s.RequestRedraw()
	fmt.Printf("Tangents %s: %s\n", *tool, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
