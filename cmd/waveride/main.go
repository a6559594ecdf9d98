package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rig-curve-tools/internal/config"
	"rig-curve-tools/internal/rigdoc"
	"rig-curve-tools/internal/waveride"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	amount := flag.Float64("amount", 0, "Offset amount in [-1, 1], scaled to frames")
	sel := flag.String("select", "", "Comma-separated node names (default: document selection)")
	configFile := flag.String("config", "", "Path to config.yaml")

	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc is required")
		os.Exit(1)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Resolve(config.Flags{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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

	sess, capture := waveride.Build(s.SelectedChannelSets())
	sess.MaxFrames = cfg.MaxOffsetFrames
	fmt.Printf("Waveride: %s\n", capture)
	if capture.Empty() {
		os.Exit(0)
	}

	var report string
	s.WithUndo("waveride", func() {
		report = sess.Apply(*amount).String()
	})
	s.RequestRedraw()
	fmt.Printf("Offset %.2f (%.1f frames max): %s\n", *amount, sess.MaxFrames, report)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
