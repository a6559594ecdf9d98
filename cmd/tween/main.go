package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"rig-curve-tools/internal/rigdoc"
	"rig-curve-tools/internal/tween"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	amount := flag.Float64("amount", 0, "Blend amount in [-1, 1]")
	mode := flag.String("mode", "lerp", "Tween mode: lerp, space, offset, rest, force")
	atTime := flag.Float64("time", math.NaN(), "Current time (default: document time)")
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

	sess, capture := tween.Build(s.SelectedChannelSets(), s.CurrentTime)
	fmt.Printf("Tween: %s\n", capture)
	if capture.Empty() {
		os.Exit(0)
	}

	var report string
	s.WithUndo("tween", func() {
		s.WithAnimate(func() {
			report = sess.Apply(*amount, tween.ParseMode(*mode)).String()
		})
	})
	s.RequestRedraw()
	fmt.Printf("Applied %s %.2f: %s\n", *mode, *amount, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
