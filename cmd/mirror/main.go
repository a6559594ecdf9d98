package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"rig-curve-tools/internal/config"
	"rig-curve-tools/internal/mirror"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	mode := flag.String("mode", "auto", "Operation: auto, l2r, r2l, flip, mirrored, reset")
	snap := flag.Bool("snap", false, "Take a pose snapshot before operating")
	blend := flag.Float64("blend", 1, "Blend toward the target pose in [0, 1]")
	atTime := flag.Float64("time", math.NaN(), "Current time (default: document time)")
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
	if !math.IsNaN(*atTime) {
		s.CurrentTime = *atTime
	}
	if *sel != "" {
		s.Select(strings.Split(*sel, ",")...)
	}

	ctrls := s.SelectedControllers()
	if len(ctrls) == 0 {
		fmt.Println("Nothing selected.")
		os.Exit(0)
	}

	eng := mirror.NewEngine()
	if *snap {
		eng.Snap = mirror.Take("pose", ctrls, s.CurrentTime)
		fmt.Printf("Snapshot: %d controllers\n", len(eng.Snap.Names()))
	}

	var summary string
	s.WithUndo("mirror "+*mode, func() {
		s.WithAnimate(func() {
			switch *mode {
			case "auto":
				summary = eng.MirrorPose(ctrls).String()
			case "l2r":
				summary = eng.MirrorLeftToRight(ctrls).String()
			case "r2l":
				summary = eng.MirrorRightToLeft(ctrls).String()
			case "flip":
				summary = eng.FlipPose(ctrls).String()
			case "mirrored":
				if eng.Snap == nil {
					fmt.Fprintln(os.Stderr, "Error: mode mirrored requires -snap")
					os.Exit(1)
				}
				axis, err := cfg.MirrorAxisIndex()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
				n := eng.Snap.ApplyMirrored(ctrls, axis, *blend)
				summary = fmt.Sprintf("%d controllers mirrored across %s", n, cfg.MirrorAxis)
			case "reset":
				summary = fmt.Sprintf("%d controllers reset", eng.ResetPose(ctrls))
			default:
				fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", *mode)
				os.Exit(1)
			}
		})
	})
	s.RequestRedraw()
	fmt.Printf("Mirror %s: %s\n", *mode, summary)

	out := *outPath
	if out == "" {
		out = *docPath
	}
	if err := rigdoc.Save(out, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
