package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rig-curve-tools/internal/pushpull"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	amount := flag.Float64("amount", 0, "Deviation scale: -1 flattens, +1 doubles")
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

	sess, capture := pushpull.Build(s.SelectedChannelSets())
	fmt.Printf("Push-pull: %s\n", capture)
	if capture.Empty() {
		os.Exit(0)
	}

	var report string
	s.WithUndo("pushpull", func() {
		report = sess.Apply(*amount).String()
	})
	s.RequestRedraw()
	fmt.Printf("Applied %.2f: %s\n", *amount, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
