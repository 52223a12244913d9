package render

import (
	"image"
	"image/color"
	"testing"
)

// countColor tallies pixels within tolerance of col.
func countColor(img *image.RGBA, col color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			if near(uint8(r>>8), col.R) && near(uint8(g>>8), col.G) && near(uint8(bb>>8), col.B) {
				n++
			}
		}
	}
	return n
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d > -8 && d < 8
}

func TestNewCanvasBackground(t *testing.T) {
	c := NewCanvas()
	img := c.Image()

	if img.Bounds() != image.Rect(0, 0, 240, 240) {
		t.Fatalf("bounds = %v, want 240x240", img.Bounds())
	}
	if got := countColor(img, ColorBackground); got != 240*240 {
		t.Errorf("background pixels = %d, want all", got)
	}
}

func TestRingGaugeZeroPercentDrawsNoActive(t *testing.T) {
	c := NewCanvas()
	c.RingGauge(120, 120, 50, 0, ColorTeal, ColorDarkGray, 8)

	if got := countColor(c.Image(), ColorTeal); got != 0 {
		t.Errorf("active pixels at 0%% = %d, want 0", got)
	}
	if got := countColor(c.Image(), ColorDarkGray); got == 0 {
		t.Error("track missing at 0%")
	}
}

func TestRingGaugeFullCoversTrack(t *testing.T) {
	c := NewCanvas()
	c.RingGauge(120, 120, 50, 100, ColorTeal, ColorDarkGray, 8)

	active := countColor(c.Image(), ColorTeal)
	if active == 0 {
		t.Fatal("no active pixels at 100%")
	}

	half := NewCanvas()
	half.RingGauge(120, 120, 50, 50, ColorTeal, ColorDarkGray, 8)
	if got := countColor(half.Image(), ColorTeal); got >= active {
		t.Errorf("50%% arc (%d px) not shorter than 100%% (%d px)", got, active)
	}
}

func TestRingGaugeClampsPercent(t *testing.T) {
	over := NewCanvas()
	over.RingGauge(120, 120, 50, 250, ColorTeal, ColorDarkGray, 8)

	full := NewCanvas()
	full.RingGauge(120, 120, 50, 100, ColorTeal, ColorDarkGray, 8)

	if countColor(over.Image(), ColorTeal) != countColor(full.Image(), ColorTeal) {
		t.Error("percent above 100 draws differently than 100")
	}

	under := NewCanvas()
	under.RingGauge(120, 120, 50, -40, ColorTeal, ColorDarkGray, 8)
	if got := countColor(under.Image(), ColorTeal); got != 0 {
		t.Errorf("negative percent drew %d active pixels", got)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	c := NewCanvas()
	rect := image.Rect(20, 100, 220, 140)
	c.Sparkline(rect, []float64{5, 5, 5, 5}, ColorLime, false)

	if got := countColor(c.Image(), ColorLime); got == 0 {
		t.Fatal("flat series drew nothing")
	}

	// all colored pixels sit near the vertical midpoint
	mid := rect.Min.Y + rect.Dy()/2
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := c.Image().At(x, y).RGBA()
			if near(uint8(r>>8), ColorLime.R) && near(uint8(g>>8), ColorLime.G) && near(uint8(b>>8), ColorLime.B) {
				if y < mid-3 || y > mid+3 {
					t.Fatalf("flat line pixel at y=%d, midpoint %d", y, mid)
				}
			}
		}
	}
}

func TestSparklineDegenerateInputs(t *testing.T) {
	c := NewCanvas()
	c.Sparkline(image.Rect(0, 0, 100, 40), nil, ColorLime, true)
	c.Sparkline(image.Rect(0, 0, 1, 1), []float64{1, 2}, ColorLime, true)
	c.Sparkline(image.Rect(10, 10, 110, 50), []float64{7}, ColorLime, true)
}

func TestBarFillGrowsWithPercent(t *testing.T) {
	rect := image.Rect(20, 110, 220, 124)

	px := func(p float64) int {
		c := NewCanvas()
		c.Bar(rect, p, ColorOrange, ColorDarkGray)
		return countColor(c.Image(), ColorOrange)
	}

	p25, p75 := px(25), px(75)
	if p25 == 0 || p75 == 0 {
		t.Fatalf("bar drew nothing: 25%%=%d 75%%=%d", p25, p75)
	}
	if p25 >= p75 {
		t.Errorf("25%% fill (%d px) not smaller than 75%% (%d px)", p25, p75)
	}
}

func TestTextAnchoring(t *testing.T) {
	f, err := DefaultFaces()
	if err != nil {
		t.Fatal(err)
	}

	c := NewCanvas()
	c.Text("MID", 120, 120, f.Large, ColorWhite, AnchorMid)

	b := c.Image().Bounds()
	minX, maxX := b.Max.X, b.Min.X
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := c.Image().At(x, y).RGBA()
			if uint8(r>>8) > 200 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	if maxX < minX {
		t.Fatal("no text pixels drawn")
	}

	center := (minX + maxX) / 2
	if center < 110 || center > 130 {
		t.Errorf("mid-anchored text centered at x=%d, want near 120", center)
	}
}

func TestTextWidthMonotonic(t *testing.T) {
	f, err := DefaultFaces()
	if err != nil {
		t.Fatal(err)
	}

	c := NewCanvas()
	short := c.TextWidth("ab", f.Small)
	long := c.TextWidth("abcdef", f.Small)
	if short <= 0 || long <= short {
		t.Errorf("widths: short=%d long=%d", short, long)
	}
}

func TestDimDarkens(t *testing.T) {
	d := Dim(color.RGBA{R: 200, G: 100, B: 50, A: 255})
	if d.R != 60 || d.G != 30 || d.B != 15 || d.A != 255 {
		t.Errorf("Dim = %+v, want {60 30 15 255}", d)
	}
}
