package render

import (
	"image/color"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"
)

// Icon draws the named glyph with its top-left corner at (x, y), scaled to
// size pixels. Unknown names draw nothing: a stale icon option must not take
// the rest of the screen down with it.
func (c *Canvas) Icon(name string, x, y, size int, col color.Color) {
	fn, ok := icons[name]
	if !ok {
		return
	}

	c.gc.SetFillColor(col)
	c.gc.SetStrokeColor(col)
	fn(c.gc, float64(x), float64(y), float64(size))
}

// Glyphs are sketched in a unit box at (x, y) with edge s. All of them fill
// simple geometric paths; legibility at 14px matters more than detail.
var icons = map[string]func(gc *draw2dimg.GraphicContext, x, y, s float64){
	"thermometer": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		stem := s * 0.22
		gc.SetLineWidth(stem)
		gc.BeginPath()
		gc.MoveTo(x+s/2, y+s*0.08)
		gc.LineTo(x+s/2, y+s*0.62)
		gc.Stroke()
		fillCircle(gc, x+s/2, y+s*0.75, s*0.2)
	},
	"drop": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s/2, y+s*0.05)
		gc.LineTo(x+s*0.85, y+s*0.6)
		gc.ArcTo(x+s/2, y+s*0.6, s*0.35, s*0.35, 0, math.Pi)
		gc.Close()
		gc.Fill()
	},
	"bulb": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		fillCircle(gc, x+s/2, y+s*0.4, s*0.32)
		gc.BeginPath()
		gc.MoveTo(x+s*0.38, y+s*0.75)
		gc.LineTo(x+s*0.62, y+s*0.75)
		gc.LineTo(x+s*0.58, y+s*0.95)
		gc.LineTo(x+s*0.42, y+s*0.95)
		gc.Close()
		gc.Fill()
	},
	"motion": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		fillCircle(gc, x+s*0.3, y+s*0.5, s*0.18)
		gc.SetLineWidth(s * 0.1)
		for i := 1; i <= 2; i++ {
			gc.BeginPath()
			gc.ArcTo(x+s*0.3, y+s*0.5, s*0.3*float64(i), s*0.3*float64(i), -math.Pi/4, math.Pi/2)
			gc.Stroke()
		}
	},
	"door": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s*0.2, y+s*0.05)
		gc.LineTo(x+s*0.8, y+s*0.05)
		gc.LineTo(x+s*0.8, y+s*0.95)
		gc.LineTo(x+s*0.2, y+s*0.95)
		gc.Close()
		gc.Stroke()
		fillCircle(gc, x+s*0.65, y+s*0.5, s*0.08)
	},
	"home": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s/2, y+s*0.05)
		gc.LineTo(x+s*0.95, y+s*0.45)
		gc.LineTo(x+s*0.8, y+s*0.45)
		gc.LineTo(x+s*0.8, y+s*0.95)
		gc.LineTo(x+s*0.2, y+s*0.95)
		gc.LineTo(x+s*0.2, y+s*0.45)
		gc.LineTo(x+s*0.05, y+s*0.45)
		gc.Close()
		gc.Fill()
	},
	"sun": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		cx, cy := x+s/2, y+s/2
		fillCircle(gc, cx, cy, s*0.28)
		gc.SetLineWidth(s * 0.08)
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			gc.BeginPath()
			gc.MoveTo(cx+math.Cos(a)*s*0.36, cy+math.Sin(a)*s*0.36)
			gc.LineTo(cx+math.Cos(a)*s*0.48, cy+math.Sin(a)*s*0.48)
			gc.Stroke()
		}
	},
	"moon": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.ArcTo(x+s/2, y+s/2, s*0.38, s*0.38, -math.Pi/2, math.Pi)
		gc.ArcTo(x+s*0.36, y+s/2, s*0.3, s*0.38, math.Pi/2, -math.Pi)
		gc.Close()
		gc.Fill()
	},
	"cloud": cloudIcon,
	"rain": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		cloudIcon(gc, x, y-s*0.12, s)
		gc.SetLineWidth(s * 0.08)
		for i := 0; i < 3; i++ {
			px := x + s*(0.3+0.2*float64(i))
			gc.BeginPath()
			gc.MoveTo(px, y+s*0.72)
			gc.LineTo(px-s*0.06, y+s*0.92)
			gc.Stroke()
		}
	},
	"snow": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		cloudIcon(gc, x, y-s*0.12, s)
		for i := 0; i < 3; i++ {
			fillCircle(gc, x+s*(0.3+0.2*float64(i)), y+s*0.82, s*0.05)
		}
	},
	"bolt": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s*0.6, y+s*0.05)
		gc.LineTo(x+s*0.25, y+s*0.55)
		gc.LineTo(x+s*0.48, y+s*0.55)
		gc.LineTo(x+s*0.4, y+s*0.95)
		gc.LineTo(x+s*0.75, y+s*0.42)
		gc.LineTo(x+s*0.52, y+s*0.42)
		gc.Close()
		gc.Fill()
	},
	"disk": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		roundedRectPath(gc, x+s*0.1, y+s*0.15, s*0.8, s*0.7, s*0.1)
		gc.Fill()
		fillCircle(gc, x+s*0.5, y+s*0.5, s*0.12)
	},
	"alarm": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s*0.2, y+s*0.7)
		gc.ArcTo(x+s*0.5, y+s*0.45, s*0.3, s*0.3, math.Pi, math.Pi)
		gc.LineTo(x+s*0.8, y+s*0.7)
		gc.LineTo(x+s*0.9, y+s*0.8)
		gc.LineTo(x+s*0.1, y+s*0.8)
		gc.Close()
		gc.Fill()
		fillCircle(gc, x+s*0.5, y+s*0.9, s*0.08)
	},
	"lock": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.SetLineWidth(s * 0.12)
		gc.BeginPath()
		gc.ArcTo(x+s*0.5, y+s*0.35, s*0.2, s*0.25, math.Pi, math.Pi)
		gc.Stroke()
		roundedRectPath(gc, x+s*0.2, y+s*0.4, s*0.6, s*0.5, s*0.08)
		gc.Fill()
	},
	"camera": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		roundedRectPath(gc, x+s*0.05, y+s*0.2, s*0.9, s*0.6, s*0.08)
		gc.Fill()
	},
	"heart": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		fillCircle(gc, x+s*0.32, y+s*0.35, s*0.22)
		fillCircle(gc, x+s*0.68, y+s*0.35, s*0.22)
		gc.BeginPath()
		gc.MoveTo(x+s*0.12, y+s*0.42)
		gc.LineTo(x+s*0.5, y+s*0.92)
		gc.LineTo(x+s*0.88, y+s*0.42)
		gc.Close()
		gc.Fill()
	},
	"note": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.SetLineWidth(s * 0.1)
		gc.BeginPath()
		gc.MoveTo(x+s*0.4, y+s*0.1)
		gc.LineTo(x+s*0.8, y+s*0.1)
		gc.LineTo(x+s*0.8, y+s*0.7)
		gc.MoveTo(x+s*0.4, y+s*0.1)
		gc.LineTo(x+s*0.4, y+s*0.78)
		gc.Stroke()
		fillCircle(gc, x+s*0.3, y+s*0.8, s*0.14)
		fillCircle(gc, x+s*0.7, y+s*0.72, s*0.14)
	},
	"play": func(gc *draw2dimg.GraphicContext, x, y, s float64) {
		gc.BeginPath()
		gc.MoveTo(x+s*0.25, y+s*0.15)
		gc.LineTo(x+s*0.85, y+s*0.5)
		gc.LineTo(x+s*0.25, y+s*0.85)
		gc.Close()
		gc.Fill()
	},
}

// IconNames lists the known glyphs, for option validation in UIs.
func IconNames() []string {
	names := make([]string, 0, len(icons))
	for name := range icons {
		names = append(names, name)
	}
	return names
}

func cloudIcon(gc *draw2dimg.GraphicContext, x, y, s float64) {
	fillCircle(gc, x+s*0.35, y+s*0.55, s*0.22)
	fillCircle(gc, x+s*0.6, y+s*0.45, s*0.26)
	fillCircle(gc, x+s*0.75, y+s*0.6, s*0.18)
	gc.BeginPath()
	gc.MoveTo(x+s*0.2, y+s*0.78)
	gc.LineTo(x+s*0.88, y+s*0.78)
	gc.LineTo(x+s*0.88, y+s*0.6)
	gc.LineTo(x+s*0.2, y+s*0.6)
	gc.Close()
	gc.Fill()
}

func fillCircle(gc *draw2dimg.GraphicContext, cx, cy, r float64) {
	gc.BeginPath()
	gc.ArcTo(cx, cy, r, r, 0, 2*math.Pi)
	gc.Close()
	gc.Fill()
}
