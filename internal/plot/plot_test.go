package plot

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"rig-curve-tools/internal/curve"
)

func sampleCurve() *curve.Curve {
	c := curve.New()
	c.SetKey(0, 0)
	i := c.SetKey(10, 5)
	c.Key(i).Selected = true
	c.SetKey(20, -3)
	return c
}

func TestCanvasSetAndImage(t *testing.T) {
	cv := NewCanvas(4, 4, RGBA{1, 2, 3, 255})
	cv.Set(2, 1, RGBA{255, 0, 0, 255})
	cv.Set(-1, 0, RGBA{255, 255, 255, 255})
	cv.Set(4, 4, RGBA{255, 255, 255, 255})

	img := cv.Image()
	if got := img.NRGBAAt(2, 1); got.R != 255 || got.G != 0 {
		t.Errorf("pixel = %+v", got)
	}
	if got := img.NRGBAAt(0, 0); got.R != 1 || got.B != 3 {
		t.Errorf("background = %+v", got)
	}
}

func TestCanvasBlend(t *testing.T) {
	cv := NewCanvas(2, 1, RGBA{0, 0, 0, 255})
	cv.Blend(0, 0, RGBA{200, 100, 50, 255}, 1)
	cv.Blend(1, 0, RGBA{200, 100, 50, 255}, 0)

	if cv.Pix[0] != 200 || cv.Pix[1] != 100 {
		t.Errorf("full coverage pixel = %v", cv.Pix[:4])
	}
	if cv.Pix[4] != 0 {
		t.Errorf("zero coverage wrote %d", cv.Pix[4])
	}
}

func TestRenderSize(t *testing.T) {
	for _, ss := range []int{1, 2} {
		img := Render(sampleCurve(), "test", Options{Size: 64, Supersample: ss})
		b := img.Bounds()
		if b.Dx() != 64 || b.Dy() != 64 {
			t.Errorf("supersample %d: bounds = %v, want 64x64", ss, b)
		}
	}
}

func TestRenderEmptyCurve(t *testing.T) {
	img := Render(curve.New(), "empty", Options{Size: 32, Supersample: 1})
	if img.Bounds().Dx() != 32 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestFitRangeAddsValueMargin(t *testing.T) {
	t0, t1, v0, v1 := fitRange(sampleCurve(), Options{})
	if t0 != 0 || t1 != 20 {
		t.Errorf("time range = %g..%g, want 0..20", t0, t1)
	}
	// Key values span -3..5 plus a 5% margin.
	if v0 >= -3 || v1 <= 5 {
		t.Errorf("value range = %g..%g, want margin around -3..5", v0, v1)
	}
}

func TestFitRangeDegenerate(t *testing.T) {
	c := curve.New()
	c.SetKey(5, 1)
	t0, t1, v0, v1 := fitRange(c, Options{})
	if t1-t0 < 1 || v1-v0 < 1 {
		t.Errorf("degenerate range not widened: t %g..%g v %g..%g", t0, t1, v0, v1)
	}
}

func TestGridSteps(t *testing.T) {
	got := gridSteps(0, 10)
	want := []float64{0, 2, 4, 6, 8, 10}
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("steps = %v, want %v", got, want)
		}
	}

	// A range crossing zero includes an exact zero for the axis line.
	found := false
	for _, g := range gridSteps(-1, 1) {
		if g == 0 {
			found = true
		}
	}
	if !found {
		t.Error("no exact zero step in -1..1")
	}
}

func TestDownsample(t *testing.T) {
	src := NewCanvas(64, 64, RGBA{100, 150, 200, 255}).Image()
	dst := Downsample(src, 32)
	if dst.Bounds().Dx() != 32 {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	// A uniform opaque image stays uniform.
	if got := dst.NRGBAAt(16, 16); got.R != 100 || got.G != 150 || got.B != 200 || got.A != 255 {
		t.Errorf("center pixel = %+v", got)
	}

	// Already small enough: returned as-is.
	if Downsample(dst, 32) != dst {
		t.Error("no-op downsample reallocated")
	}
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	img := Render(sampleCurve(), "test", Options{Size: 32, Supersample: 1})

	path := filepath.Join(dir, "sub", "curve.webp")
	if err := WriteImage(path, img); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty output file")
	}

	if err := WriteImage(filepath.Join(dir, "curve.png"), img); err == nil {
		t.Error("unknown extension accepted")
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	cfg := BatchConfig{
		OutDir:  dir,
		Ext:     "webp",
		Options: Options{Size: 32, Supersample: 1},
		Workers: 2,
	}
	jobs := []BatchJob{
		{Channel: "Root.position.x", Curve: sampleCurve()},
		{Channel: "Root.position.y", Curve: sampleCurve()},
	}

	results := RunBatch(cfg, jobs)
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Fatalf("%s failed: %s", r.Channel, r.Error)
		}
		if r.Keys != 3 {
			t.Errorf("%s keys = %d, want 3", r.Channel, r.Keys)
		}
		if _, err := os.Stat(filepath.Join(dir, r.Image)); err != nil {
			t.Errorf("%s: %v", r.Channel, err)
		}
	}

	manifest := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Errorf("manifest entries = %d", len(decoded))
	}
}

func TestRenderPointsOverlay(t *testing.T) {
	opts := Options{
		Size: 64, Supersample: 1,
		MinTime: 0, MaxTime: 20,
		MinValue: -5, MaxValue: 5,
		Points: []Point{{Time: 10, Value: 0}},
	}
	img := Render(sampleCurve(), "points", opts)

	// Fixed window maps (10, 0) to pixel (32, 32).
	got := img.NRGBAAt(32, 32)
	if got.R != colPoint.R || got.G != colPoint.G || got.B != colPoint.B {
		t.Errorf("point pixel = %v, want %v", got, colPoint)
	}
}
