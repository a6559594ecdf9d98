package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/keytools"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	atTime := flag.Float64("time", math.NaN(), "Key time (default: document time)")
	sel := flag.String("select", "", "Comma-separated node names (default: document selection)")

	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc is required")
		os.Exit(1)
	}

	s, err := rigdoc.Load(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !math.IsNaN(*atTime) {
		s.CurrentTime = *atTime
	}
	if *sel != "" {
		s.Select(strings.Split(*sel, ",")...)
	}

	var handles []anim.Handle
	for _, cs := range s.SelectedChannelSets() {
		handles = append(handles, cs.ScalarHandles()...)
	}

	var report string
	s.WithUndo("smartkey", func() {
		report = keytools.SmartKey(handles, s.CurrentTime).String()
	})
	s.RequestRedraw()
	fmt.Printf("Smart key at %.1f: %s\n", s.CurrentTime, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
