package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rig-curve-tools/internal/keytools"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
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

	var report string
	s.WithUndo("keyhammer", func() {
		report = keytools.Hammer(s.SelectedChannelSets()).String()
	})
	s.RequestRedraw()
	fmt.Printf("Hammer: %s\n", report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
