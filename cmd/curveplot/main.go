package main

import (
	"flag"
	"fmt"
	"os"

	"rig-curve-tools/internal/anim"
	"rig-curve-tools/internal/config"
	"rig-curve-tools/internal/curve"
	"rig-curve-tools/internal/plot"
	"rig-curve-tools/internal/rigdoc"
	"rig-curve-tools/internal/scene"
	"rig-curve-tools/internal/waveride"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	channel := flag.String("channel", "", "Channel name, e.g. Arm_L.position.x")
	overlay := flag.String("overlay", "", "Second channel drawn dimmed behind the first")
	outPath := flag.String("out", "curve.webp", "Output image (.webp or .tga)")
	configFile := flag.String("config", "", "Path to config.yaml")
	size := flag.Int("size", 0, "Plot size in pixels (default: 512)")
	wave := flag.Bool("wave", false, "Overlay the channel's sampled waveform")

	flag.Parse()

	if *docPath == "" || *channel == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc and -channel are required")
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
	if err := cfg.Resolve(config.Flags{PlotSize: *size}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := rigdoc.Load(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	curves := make(map[string]*curve.Curve)
	var names []string
	for _, n := range s.Nodes() {
		for _, nc := range s.NamedCurves(n) {
			curves[nc.Name] = nc.Curve
			names = append(names, nc.Name)
		}
	}

	c, ok := curves[*channel]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown channel %q\n", *channel)
		fmt.Fprintln(os.Stderr, "Known channels:")
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		os.Exit(1)
	}

	opts := plot.Options{Size: cfg.PlotSize, Supersample: cfg.Supersample}
	if *overlay != "" {
		ov, ok := curves[*overlay]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown overlay channel %q\n", *overlay)
			os.Exit(1)
		}
		opts.Overlay = ov
	}

	if *wave {
		opts.Points = waveSamples(s, *channel)
		if opts.Points == nil {
			fmt.Fprintf(os.Stderr, "Warning: no waveform for %q (needs >=2 keys, >=1 selected)\n", *channel)
		}
	}

	img := plot.Render(c, *channel, opts)
	if err := plot.WriteImage(*outPath, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d keys)\n", *outPath, c.KeyCount())
}

func waveSamples(s *scene.Scene, channel string) []plot.Point {
	var sets []anim.ChannelSet
	for _, n := range s.Nodes() {
		for _, cs := range s.ChannelSets(n) {
			for _, h := range cs.ScalarHandles() {
				if h.Name() == channel {
					sets = append(sets, anim.ChannelSet{Kind: cs.Kind, Scalar: h})
				}
			}
		}
	}
	sess, _ := waveride.Build(sets)
	samples := sess.WaveSamples(channel)
	if samples == nil {
		return nil
	}
	pts := make([]plot.Point, len(samples))
	for i, ws := range samples {
		pts[i] = plot.Point{Time: ws.Time, Value: ws.Value}
	}
	return pts
}
