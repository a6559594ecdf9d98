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
	amount := flag.Float64("amount", 0, "Ease amount: negative toward neighbors, positive away")
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
	if *sel != "" {
		s.Select(strings.Split(*sel, ",")...)
	}

	var handles []anim.Handle
	for _, cs := range s.SelectedChannelSets() {
		handles = append(handles, cs.ScalarHandles()...)
	}

	var report string
	s.WithUndo("ease", func() {
		report = keytools.Ease(handles, *amount).String()
	})
	s.RequestRedraw()
	fmt.Printf("Ease %.2f: %s\n", *amount, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
