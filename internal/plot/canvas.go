package plot

import (
	"image"
	"math"
)

// RGBA is a plain 8-bit color.
type RGBA struct {
	R, G, B, A uint8
}

// Canvas is the plot target as a flat RGBA slice for cache locality.
type Canvas struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = W*H*4
}

// NewCanvas allocates a canvas filled with the given background color.
func NewCanvas(w, h int, bg RGBA) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
	for i := 0; i < len(c.Pix); i += 4 {
		c.Pix[i] = bg.R
		c.Pix[i+1] = bg.G
		c.Pix[i+2] = bg.B
		c.Pix[i+3] = bg.A
	}
	return c
}

// Set writes an opaque pixel, ignoring out-of-bounds coordinates.
func (c *Canvas) Set(x, y int, col RGBA) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * 4
	c.Pix[i] = col.R
	c.Pix[i+1] = col.G
	c.Pix[i+2] = col.B
	c.Pix[i+3] = col.A
}

// Blend alpha-blends col over the existing pixel with coverage in [0,1].
func (c *Canvas) Blend(x, y int, col RGBA, coverage float64) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height || coverage <= 0 {
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	a := float64(col.A) / 255.0 * coverage
	i := (y*c.Width + x) * 4
	c.Pix[i] = blend8(c.Pix[i], col.R, a)
	c.Pix[i+1] = blend8(c.Pix[i+1], col.G, a)
	c.Pix[i+2] = blend8(c.Pix[i+2], col.B, a)
	if na := float64(c.Pix[i+3]) + a*(255-float64(c.Pix[i+3])); na > 255 {
		c.Pix[i+3] = 255
	} else {
		c.Pix[i+3] = uint8(na + 0.5)
	}
}

func blend8(dst, src uint8, a float64) uint8 {
	v := float64(dst)*(1-a) + float64(src)*a
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Line draws an anti-aliased line between two points.
func (c *Canvas) Line(x0, y0, x1, y1 float64, col RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}
	n := int(steps) + 1
	for s := 0; s <= n; s++ {
		t := float64(s) / float64(n)
		px := x0 + dx*t
		py := y0 + dy*t
		ix := int(math.Floor(px))
		iy := int(math.Floor(py))
		fx := px - float64(ix)
		fy := py - float64(iy)
		c.Blend(ix, iy, col, (1-fx)*(1-fy))
		c.Blend(ix+1, iy, col, fx*(1-fy))
		c.Blend(ix, iy+1, col, (1-fx)*fy)
		c.Blend(ix+1, iy+1, col, fx*fy)
	}
}

// HLine draws a horizontal line at row y across [x0,x1].
func (c *Canvas) HLine(x0, x1, y int, col RGBA) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.Set(x, y, col)
	}
}

// VLine draws a vertical line at column x across [y0,y1].
func (c *Canvas) VLine(x, y0, y1 int, col RGBA) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.Set(x, y, col)
	}
}

// Marker draws a filled square of the given half-size centered at (x, y).
func (c *Canvas) Marker(x, y, half int, col RGBA) {
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			c.Set(x+dx, y+dy, col)
		}
	}
}

// Image converts the canvas into an NRGBA image.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	copy(img.Pix, c.Pix)
	return img
}
