package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}
	if cfg.PlotSize != 512 || cfg.Supersample != 2 || cfg.WebPQuality != 90 {
		t.Errorf("plot defaults = %+v", cfg)
	}
	if cfg.Workers <= 0 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.MaxOffsetFrames != 20 || cfg.PairTolerance != 0.5 || cfg.MirrorAxis != "x" {
		t.Errorf("engine defaults = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rigtools.yaml")
	body := "plot_size: 256\nwebp_quality: 75\nmirror_axis: z\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}
	if cfg.PlotSize != 256 || cfg.WebPQuality != 75 || cfg.MirrorAxis != "z" {
		t.Errorf("cfg = %+v", cfg)
	}
	// Unset fields still resolve to defaults.
	if cfg.Supersample != 2 {
		t.Errorf("supersample = %d", cfg.Supersample)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("RIGTOOLS_PLOT_SIZE", "640")
	cfg := Config{PlotSize: 256}
	if err := cfg.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}
	if cfg.PlotSize != 640 {
		t.Errorf("plot size = %d, want env 640", cfg.PlotSize)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("RIGTOOLS_PLOT_SIZE", "640")
	t.Setenv("RIGTOOLS_WORKERS", "2")
	var cfg Config
	if err := cfg.Resolve(Flags{PlotSize: 128, Workers: 7}); err != nil {
		t.Fatal(err)
	}
	if cfg.PlotSize != 128 || cfg.Workers != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestMirrorAxisIndex(t *testing.T) {
	for axis, want := range map[string]int{"x": 0, "Y": 1, "z": 2} {
		cfg := Config{MirrorAxis: axis}
		got, err := cfg.MirrorAxisIndex()
		if err != nil || got != want {
			t.Errorf("axis %q = %d, %v; want %d", axis, got, err, want)
		}
	}
	cfg := Config{MirrorAxis: "w"}
	if _, err := cfg.MirrorAxisIndex(); err == nil {
		t.Error("unknown axis accepted")
	}
}
