package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rig-curve-tools/internal/config"
	"rig-curve-tools/internal/plot"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	outDir := flag.String("output", "plots", "Output directory")
	ext := flag.String("ext", "webp", "Image format: webp or tga")
	configFile := flag.String("config", "", "Path to config.yaml")
	size := flag.Int("size", 0, "Plot size in pixels (default: 512)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	keyedOnly := flag.Bool("keyed", true, "Skip channels without keys")

	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -doc is required")
		os.Exit(1)
	}
	if *ext != "webp" && *ext != "tga" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *ext)
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
	if err := cfg.Resolve(config.Flags{PlotSize: *size, Workers: *workers}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := rigdoc.Load(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var jobs []plot.BatchJob
	for _, n := range s.Nodes() {
		for _, nc := range s.NamedCurves(n) {
			if *keyedOnly && nc.Curve.KeyCount() == 0 {
				continue
			}
			jobs = append(jobs, plot.BatchJob{Channel: nc.Name, Curve: nc.Curve})
		}
	}

	if len(jobs) == 0 {
		fmt.Println("No channels to plot.")
		os.Exit(0)
	}

	fmt.Printf("Curve plots: %d channels, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", *outDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := plot.BatchConfig{
		OutDir:  *outDir,
		Ext:     *ext,
		Options: plot.Options{Size: cfg.PlotSize, Supersample: cfg.Supersample},
		Workers: cfg.Workers,
	}
	results := plot.RunBatch(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []plot.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Channel, e.Error)
		}
	}

	manifestPath := filepath.Join(*outDir, "manifest.json")
	os.MkdirAll(*outDir, 0755)
	if err := plot.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
