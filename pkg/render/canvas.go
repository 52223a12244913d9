package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/samber/lo"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"geekmagic/pkg/layout"
)

// Anchor positions text relative to its point: first rune is horizontal
// (l/m/r), second vertical (t/m/b).
type Anchor string

const (
	AnchorTopLeft   Anchor = "lt"
	AnchorTopMid    Anchor = "mt"
	AnchorTopRight  Anchor = "rt"
	AnchorMidLeft   Anchor = "lm"
	AnchorMid       Anchor = "mm"
	AnchorMidRight  Anchor = "rm"
	AnchorBotLeft   Anchor = "lb"
	AnchorBotMid    Anchor = "mb"
	AnchorBotRight  Anchor = "rb"
)

// Canvas is a fixed-size mutable drawing surface for one screen render.
// Out-of-bounds drawing is clipped, never an error.
type Canvas struct {
	img *image.RGBA
	gc  *draw2dimg.GraphicContext
}

func NewCanvas() *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, layout.CanvasWidth, layout.CanvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(ColorBackground), image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineCap(draw2d.RoundCap)
	return &Canvas{img: img, gc: gc}
}

func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Draw composites src into the destination rectangle, clipped to the canvas.
func (c *Canvas) Draw(dst image.Rectangle, src image.Image) {
	draw.Draw(c.img, dst.Intersect(c.img.Bounds()), src, src.Bounds().Min, draw.Over)
}

// Text draws s anchored at (x, y).
func (c *Canvas) Text(s string, x, y int, face font.Face, col color.Color, anchor Anchor) {
	if s == "" || face == nil {
		return
	}

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	w := d.MeasureString(s).Round()
	m := face.Metrics()
	ascent, descent := m.Ascent.Round(), m.Descent.Round()

	dx, dy := x, y
	switch horiz(anchor) {
	case 'm':
		dx = x - w/2
	case 'r':
		dx = x - w
	}
	switch vert(anchor) {
	case 't':
		dy = y + ascent
	case 'm':
		dy = y - (ascent+descent)/2 + ascent
	case 'b':
		dy = y - descent
	}

	d.Dot = fixed.P(dx, dy)
	d.DrawString(s)
}

// TextWidth reports the advance width of s in pixels.
func (c *Canvas) TextWidth(s string, face font.Face) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(s).Round()
}

// RingGauge draws a full track ring and an active arc proportional to
// percent, starting at 12 o'clock and sweeping clockwise. Percent is clamped
// to [0, 100].
func (c *Canvas) RingGauge(cx, cy, r int, percent float64, active, track color.Color, width float64) {
	percent = lo.Clamp(percent, 0, 100)

	c.strokeArc(float64(cx), float64(cy), float64(r), 0, 2*math.Pi, track, width)
	if percent > 0 {
		c.strokeArc(float64(cx), float64(cy), float64(r), -math.Pi/2, 2*math.Pi*percent/100, active, width)
	}
}

// ArcGauge is the open-ring variant: a 270 degree track with the gap at the
// bottom, swept clockwise from the lower left.
func (c *Canvas) ArcGauge(cx, cy, r int, percent float64, active, track color.Color, width float64) {
	percent = lo.Clamp(percent, 0, 100)
	const sweep = 1.5 * math.Pi
	start := 0.75 * math.Pi // lower left

	c.strokeArc(float64(cx), float64(cy), float64(r), start, sweep, track, width)
	if percent > 0 {
		c.strokeArc(float64(cx), float64(cy), float64(r), start, sweep*percent/100, active, width)
	}
}

func (c *Canvas) strokeArc(cx, cy, r, start, sweep float64, col color.Color, width float64) {
	c.gc.SetStrokeColor(col)
	c.gc.SetLineWidth(width)
	c.gc.BeginPath()
	c.gc.ArcTo(cx, cy, r, r, start, sweep)
	c.gc.Stroke()
}

// Bar draws a horizontal gauge: full-width track with a fill proportional to
// percent.
func (c *Canvas) Bar(rect image.Rectangle, percent float64, active, track color.Color) {
	percent = lo.Clamp(percent, 0, 100)
	radius := math.Min(3, float64(rect.Dy())/2)

	c.fillRounded(rect, track, radius)

	w := int(float64(rect.Dx()) * percent / 100)
	if w > 0 {
		fill := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+lo.Max([]int{w, int(radius * 2)}), rect.Max.Y)
		c.fillRounded(fill, active, radius)
	}
}

// Sparkline normalizes values into the rect and draws a polyline, optionally
// filling the area beneath. A zero-variance series draws a flat line at the
// vertical midpoint.
func (c *Canvas) Sparkline(rect image.Rectangle, values []float64, col color.Color, fill bool) {
	if len(values) == 0 || rect.Dx() < 2 || rect.Dy() < 2 {
		return
	}

	min := lo.Min(values)
	max := lo.Max(values)

	ys := make([]float64, len(values))
	for i, v := range values {
		if max == min {
			ys[i] = float64(rect.Min.Y) + float64(rect.Dy())/2
		} else {
			ys[i] = float64(rect.Max.Y) - (v-min)/(max-min)*float64(rect.Dy()-1) - 0.5
		}
	}

	xs := make([]float64, len(values))
	if len(values) == 1 {
		xs[0] = float64(rect.Min.X)
	} else {
		step := float64(rect.Dx()-1) / float64(len(values)-1)
		for i := range values {
			xs[i] = float64(rect.Min.X) + float64(i)*step
		}
	}

	if fill {
		r, g, b, _ := col.RGBA()
		area := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 70}

		c.gc.SetFillColor(area)
		c.gc.BeginPath()
		c.gc.MoveTo(xs[0], float64(rect.Max.Y))
		for i := range values {
			c.gc.LineTo(xs[i], ys[i])
		}
		c.gc.LineTo(xs[len(xs)-1], float64(rect.Max.Y))
		c.gc.Close()
		c.gc.Fill()
	}

	c.gc.SetStrokeColor(col)
	c.gc.SetLineWidth(1.6)
	c.gc.BeginPath()
	if len(values) == 1 {
		c.gc.MoveTo(float64(rect.Min.X), ys[0])
		c.gc.LineTo(float64(rect.Max.X-1), ys[0])
	} else {
		c.gc.MoveTo(xs[0], ys[0])
		for i := 1; i < len(values); i++ {
			c.gc.LineTo(xs[i], ys[i])
		}
	}
	c.gc.Stroke()
}

// Panel draws a rounded-rectangle background.
func (c *Canvas) Panel(rect image.Rectangle, col color.Color, radius float64) {
	c.fillRounded(rect, col, radius)
}

func (c *Canvas) fillRounded(rect image.Rectangle, col color.Color, radius float64) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	r := math.Min(radius, math.Min(w, h)/2)

	c.gc.SetFillColor(col)
	c.gc.BeginPath()
	roundedRectPath(c.gc, x, y, w, h, r)
	c.gc.Fill()
}

func roundedRectPath(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -math.Pi/2, math.Pi/2)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, math.Pi/2)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, math.Pi/2, math.Pi/2)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, math.Pi/2)
	gc.Close()
}

func horiz(a Anchor) byte {
	if len(a) > 0 {
		return a[0]
	}
	return 'l'
}

func vert(a Anchor) byte {
	if len(a) > 1 {
		return a[1]
	}
	return 't'
}
