package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"rig-curve-tools/internal/curve"
)

// Options controls how a curve plot is rendered.
type Options struct {
	Size        int // final edge length in pixels
	Supersample int // rasterize at Size*Supersample, downsample after

	// Plot range. When MaxTime <= MinTime (or MaxValue <= MinValue)
	// the range is fitted to the curve with a margin.
	MinTime, MaxTime   float64
	MinValue, MaxValue float64

	// Overlay is drawn dimmed behind the main curve when non-nil.
	Overlay *curve.Curve

	// Points are drawn as small markers behind the main curve, for
	// sampled waveforms and similar traces.
	Points []Point
}

// Point is one sample of a points overlay.
type Point struct {
	Time  float64
	Value float64
}

var (
	colBackground = RGBA{24, 26, 30, 255}
	colGrid       = RGBA{52, 56, 62, 255}
	colZeroLine   = RGBA{88, 94, 102, 255}
	colCurve      = RGBA{120, 190, 255, 255}
	colOverlay    = RGBA{90, 100, 80, 255}
	colPoint      = RGBA{80, 130, 100, 255}
	colKey        = RGBA{235, 235, 235, 255}
	colKeySel     = RGBA{255, 180, 60, 255}
	colLabel      = RGBA{150, 155, 162, 255}
)

// Render rasterizes a curve plot with grid, key markers and axis labels.
func Render(c *curve.Curve, title string, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = 512
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	ss := opts.Supersample
	size := opts.Size * ss

	t0, t1, v0, v1 := fitRange(c, opts)

	cv := NewCanvas(size, size, colBackground)
	margin := 24 * ss
	plotW := float64(size - 2*margin)
	plotH := float64(size - 2*margin)

	toX := func(t float64) float64 {
		return float64(margin) + (t-t0)/(t1-t0)*plotW
	}
	toY := func(v float64) float64 {
		return float64(size-margin) - (v-v0)/(v1-v0)*plotH
	}

	// Grid
	for _, gt := range gridSteps(t0, t1) {
		cv.VLine(int(toX(gt)+0.5), margin, size-margin, colGrid)
	}
	for _, gv := range gridSteps(v0, v1) {
		col := colGrid
		if gv == 0 {
			col = colZeroLine
		}
		cv.HLine(margin, size-margin, int(toY(gv)+0.5), col)
	}

	// Overlay curve behind the main one
	if opts.Overlay != nil && opts.Overlay.KeyCount() > 0 {
		drawCurve(cv, opts.Overlay, t0, t1, toX, toY, colOverlay)
	}

	for _, p := range opts.Points {
		cv.Marker(int(toX(p.Time)+0.5), int(toY(p.Value)+0.5), ss, colPoint)
	}

	if c.KeyCount() > 0 {
		drawCurve(cv, c, t0, t1, toX, toY, colCurve)

		half := 2 * ss
		for _, k := range c.Keys() {
			col := colKey
			if k.Selected {
				col = colKeySel
			}
			cv.Marker(int(toX(k.Time)+0.5), int(toY(k.Value)+0.5), half, col)
		}
	}

	img := cv.Image()
	if ss > 1 {
		img = Downsample(img, opts.Size)
	}

	// Labels go on after downsampling so the 7x13 face stays crisp.
	drawLabel(img, 4, 14, title)
	drawLabel(img, 4, opts.Size-4, formatRange(t0, t1, v0, v1))
	return img
}

func drawCurve(cv *Canvas, c *curve.Curve, t0, t1 float64, toX, toY func(float64) float64, col RGBA) {
	steps := cv.Width
	prevX := toX(t0)
	prevY := toY(c.ValueAt(t0))
	for s := 1; s <= steps; s++ {
		t := t0 + (t1-t0)*float64(s)/float64(steps)
		x := toX(t)
		y := toY(c.ValueAt(t))
		cv.Line(prevX, prevY, x, y, col)
		prevX, prevY = x, y
	}
}

// fitRange returns the plot window, fitted to the keys when not fixed
// by the options.
func fitRange(c *curve.Curve, opts Options) (t0, t1, v0, v1 float64) {
	t0, t1 = opts.MinTime, opts.MaxTime
	v0, v1 = opts.MinValue, opts.MaxValue

	if t1 <= t0 || v1 <= v0 {
		kt0, kt1 := math.Inf(1), math.Inf(-1)
		kv0, kv1 := math.Inf(1), math.Inf(-1)
		for _, k := range c.Keys() {
			kt0 = math.Min(kt0, k.Time)
			kt1 = math.Max(kt1, k.Time)
			kv0 = math.Min(kv0, k.Value)
			kv1 = math.Max(kv1, k.Value)
		}
		if opts.Overlay != nil {
			for _, k := range opts.Overlay.Keys() {
				kt0 = math.Min(kt0, k.Time)
				kt1 = math.Max(kt1, k.Time)
				kv0 = math.Min(kv0, k.Value)
				kv1 = math.Max(kv1, k.Value)
			}
		}
		if math.IsInf(kt0, 1) {
			kt0, kt1, kv0, kv1 = 0, 1, 0, 1
		}
		if t1 <= t0 {
			t0, t1 = kt0, kt1
		}
		if v1 <= v0 {
			v0, v1 = kv0, kv1
		}
	}

	if t1-t0 < 1e-6 {
		t0 -= 0.5
		t1 += 0.5
	}
	if v1-v0 < 1e-6 {
		v0 -= 0.5
		v1 += 0.5
	}
	// 5% margin on the value axis so flat curves stay off the border
	vm := (v1 - v0) * 0.05
	return t0, t1, v0 - vm, v1 + vm
}

// gridSteps picks round-numbered grid positions covering [lo, hi].
func gridSteps(lo, hi float64) []float64 {
	span := hi - lo
	step := math.Pow(10, math.Floor(math.Log10(span)))
	if span/step < 2 {
		step /= 5
	} else if span/step < 5 {
		step /= 2
	}
	var out []float64
	for g := math.Ceil(lo/step) * step; g <= hi; g += step {
		if math.Abs(g) < step*1e-9 {
			g = 0
		}
		out = append(out, g)
	}
	return out
}

func formatRange(t0, t1, v0, v1 float64) string {
	return fmt.Sprintf("t %.1f..%.1f  v %.2f..%.2f", t0, t1, v0, v1)
}

func labelColor() color.NRGBA {
	return color.NRGBA{R: colLabel.R, G: colLabel.G, B: colLabel.B, A: colLabel.A}
}

func drawLabel(img *image.NRGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
