package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"rig-curve-tools/internal/config"
	"rig-curve-tools/internal/mirror"
	"rig-curve-tools/internal/rigdoc"
)

func main() {
	docPath := flag.String("doc", "", "Path to rig document (YAML)")
	probe := flag.Bool("probe", false, "Also probe axis-flip tables for each pair")
	sel := flag.String("select", "", "Comma-separated node names (default: all nodes)")
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
	} else {
		var names []string
		for _, n := range s.Nodes() {
			names = append(names, n.Name)
		}
		s.Select(names...)
	}

	ctrls := s.SelectedControllers()
	pairs := mirror.DiscoverWithTolerance(ctrls, cfg.PairTolerance)

	byName := make(map[string]int)
	for i, c := range ctrls {
		byName[c.Name()] = i
	}

	var lefts []string
	for name, side := range pairs.Sides {
		if side == mirror.SideLeft {
			lefts = append(lefts, name)
		}
	}
	sort.Strings(lefts)

	fmt.Printf("Pairs: %d, Centers: %d\n", pairs.PairCount(), len(pairs.Centers))
	for _, name := range lefts {
		other := pairs.Pair[name]
		fmt.Printf("  %s <-> %s\n", name, other)
		if *probe {
			a := ctrls[byName[name]]
			b := ctrls[byName[other]]
			rot := mirror.DetectRotationFlips(a, b)
			pos := mirror.DetectPositionFlips(a, b)
			fmt.Printf("    rot flips: %v, pos flips: %v\n", rot, pos)
		}
	}
	for _, name := range pairs.Centers {
		fmt.Printf("  %s (center)\n", name)
		if *probe {
			c := ctrls[byName[name]]
			fmt.Printf("    rot flips: %v\n", mirror.DetectCenterRotationFlips(c))
		}
	}
}
