package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
	"golang.org/x/image/font"

	"geekmagic/pkg/screen"
)

// One renderer per widget kind, dispatched through this closed table. Adding
// a kind means adding a row here; nothing is patched in at runtime.
var renderers = map[screen.Kind]func(*widgetCtx){
	screen.KindGauge:   renderGauge,
	screen.KindChart:   renderChart,
	screen.KindEntity:  renderEntity,
	screen.KindStatus:  renderStatus,
	screen.KindWeather: renderWeather,
	screen.KindMedia:   renderMedia,
	screen.KindClock:   renderClock,
	screen.KindText:    renderText,
	screen.KindCamera:  renderCamera,
}

// accents assigns each slot a stable highlight color.
var accents = []color.RGBA{ColorTeal, ColorPurple, ColorOrange, ColorLime, ColorPink, ColorBlue}

type widgetCtx struct {
	c    *Canvas
	f    *Faces
	rect image.Rectangle
	w    screen.Widget
	snap Snapshot
}

func (x *widgetCtx) value() (Value, bool) {
	return x.snap.Lookup(x.w.Source)
}

// label prefers an explicit option, then the source's descriptive name.
func (x *widgetCtx) label() string {
	if l := x.w.Options.String("label", ""); l != "" {
		return l
	}
	v, _ := x.value()
	return v.Name
}

func (x *widgetCtx) accent() color.RGBA {
	return accents[x.w.Slot%len(accents)]
}

func (x *widgetCtx) centerX() int { return x.rect.Min.X + x.rect.Dx()/2 }
func (x *widgetCtx) centerY() int { return x.rect.Min.Y + x.rect.Dy()/2 }

// placeholder marks a widget whose data source is missing or empty. Dashes,
// not errors: one dead sensor must not blank the whole screen.
func (x *widgetCtx) placeholder() {
	x.c.Text("--", x.centerX(), x.centerY(), x.f.Large, ColorGray, AnchorMid)
	if name := x.label(); name != "" {
		x.c.Text(x.truncate(name, x.f.Tiny), x.centerX(), x.rect.Max.Y-8, x.f.Tiny, ColorGray, AnchorMid)
	}
}

func (x *widgetCtx) truncate(s string, face font.Face) string {
	max := x.rect.Dx() - 8
	if x.c.TextWidth(s, face) <= max {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		short := strings.TrimRight(string(runes), " ") + "…"
		if x.c.TextWidth(short, face) <= max {
			return short
		}
	}
	return string(runes)
}

func renderGauge(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()
	if !ok || !v.IsNum {
		x.placeholder()
		return
	}

	min := o.Float("min", 0)
	max := o.Float("max", 100)
	pct := 0.0
	if max > min {
		pct = lo.Clamp((v.Number-min)/(max-min)*100, 0, 100)
	}

	cx := x.centerX()
	cy := x.rect.Min.Y + x.rect.Dy()/2 - 6
	r := lo.Min([]int{x.rect.Dx(), x.rect.Dy()})/2 - 16
	active := x.accent()

	track := Dim(active)
	if o.String("style", "ring") == "arc" {
		x.c.ArcGauge(cx, cy, r, pct, active, track, 6)
	} else {
		x.c.RingGauge(cx, cy, r, pct, active, track, 6)
	}

	text := formatNumber(v.Number)
	if o.Bool("show_unit", true) {
		unit := o.String("unit", v.Unit)
		text += unit
	}
	x.c.Text(text, cx, cy, x.f.Medium, ColorWhite, AnchorMid)

	if name := x.label(); name != "" {
		x.c.Text(x.truncate(strings.ToUpper(name), x.f.Tiny), cx, x.rect.Max.Y-8, x.f.Tiny, ColorGray, AnchorMid)
	}
}

func renderChart(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()

	x.c.Panel(x.rect, ColorPanel, 4)

	if name := x.label(); name != "" {
		x.c.Text(x.truncate(strings.ToUpper(name), x.f.Tiny), x.rect.Min.X+8, x.rect.Min.Y+10, x.f.Tiny, ColorGray, AnchorMidLeft)
	}

	if !ok || len(v.Series) == 0 {
		x.c.Text("--", x.centerX(), x.centerY(), x.f.Medium, ColorGray, AnchorMid)
		return
	}

	inner := image.Rect(x.rect.Min.X+8, x.rect.Min.Y+20, x.rect.Max.X-8, x.rect.Max.Y-14)
	x.c.Sparkline(inner, v.Series, x.accent(), true)

	if o.Bool("show_value", false) {
		last, _ := lo.Last(v.Series)
		x.c.Text(formatNumber(last)+v.Unit, x.rect.Max.X-8, x.rect.Min.Y+10, x.f.Small, ColorWhite, AnchorMidRight)
	}
	if o.Bool("show_range", false) {
		rng := fmt.Sprintf("%s/%s", formatNumber(lo.Min(v.Series)), formatNumber(lo.Max(v.Series)))
		x.c.Text(rng, x.rect.Max.X-8, x.rect.Max.Y-7, x.f.Tiny, ColorGray, AnchorMidRight)
	}
}

func renderEntity(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()
	if !ok {
		x.placeholder()
		return
	}

	cx := x.centerX()
	top := x.rect.Min.Y

	if icon := o.String("icon", ""); icon != "" {
		size := 18
		x.c.Icon(icon, cx-size/2, top+8, size, x.accent())
		top += 18
	}

	text := v.Text
	if v.IsNum {
		text = formatNumber(v.Number)
		if o.Bool("show_unit", false) && v.Unit != "" {
			text += " " + v.Unit
		}
	}
	if text == "" {
		text = "--"
	}

	face := x.f.Large
	if x.c.TextWidth(text, face) > x.rect.Dx()-8 {
		face = x.f.Medium
	}
	x.c.Text(x.truncate(text, face), cx, top+(x.rect.Max.Y-top)/2-4, face, ColorWhite, AnchorMid)

	if o.Bool("show_name", false) {
		if name := x.label(); name != "" {
			x.c.Text(x.truncate(name, x.f.Tiny), cx, x.rect.Max.Y-8, x.f.Tiny, ColorGray, AnchorMid)
		}
	}
}

func renderStatus(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()
	if !ok {
		x.placeholder()
		return
	}

	col := lo.Ternary(v.On, x.accent(), ColorGray)
	text := lo.Ternary(v.On, o.String("on_text", "On"), o.String("off_text", "Off"))
	cx := x.centerX()

	if icon := o.String("icon", ""); icon != "" {
		size := 20
		x.c.Icon(icon, cx-size/2, x.rect.Min.Y+10, size, col)
	}
	x.c.Text(x.truncate(text, x.f.Medium), cx, x.centerY()+8, x.f.Medium, col, AnchorMid)

	if name := x.label(); name != "" {
		x.c.Text(x.truncate(name, x.f.Tiny), cx, x.rect.Max.Y-8, x.f.Tiny, ColorGray, AnchorMid)
	}
}

// weatherIcons maps source condition strings onto glyph names.
var weatherIcons = map[string]string{
	"sunny": "sun", "clear": "sun", "clear-night": "moon",
	"cloudy": "cloud", "partlycloudy": "cloud", "fog": "cloud",
	"rainy": "rain", "pouring": "rain", "lightning": "bolt",
	"snowy": "snow", "snowy-rainy": "snow",
}

func renderWeather(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()
	if !ok {
		x.placeholder()
		return
	}

	cond := v.Attrs["condition"]
	glyph := weatherIcons[cond]
	if glyph == "" {
		glyph = "cloud"
	}

	x.c.Panel(x.rect, ColorPanel, 4)

	iconSize := 28
	x.c.Icon(glyph, x.rect.Min.X+12, x.rect.Min.Y+12, iconSize, ColorYellow)

	temp := "--"
	if v.IsNum {
		temp = formatNumber(v.Number) + "°"
	}
	x.c.Text(temp, x.rect.Min.X+12+iconSize+10, x.rect.Min.Y+12+iconSize/2, x.f.Large, ColorWhite, AnchorMidLeft)
	x.c.Text(titleCase(cond), x.rect.Min.X+12, x.rect.Min.Y+iconSize+24, x.f.Small, ColorGray, AnchorMidLeft)

	info := x.rect.Max.X - 12
	if hi, lo2 := v.Attrs["temp_high"], v.Attrs["temp_low"]; hi != "" || lo2 != "" {
		x.c.Text(fmt.Sprintf("H: %s°  L: %s°", hi, lo2), info, x.rect.Min.Y+18, x.f.Small, ColorGray, AnchorMidRight)
	}
	if o.Bool("show_humidity", false) && v.Attrs["humidity"] != "" {
		x.c.Text(v.Attrs["humidity"]+"%", info, x.rect.Min.Y+34, x.f.Small, ColorBlue, AnchorMidRight)
	}

	// forecast row: daily highs from the series, left to right
	if o.Bool("show_forecast", false) && len(v.Series) > 0 {
		days := lo.Clamp(o.Int("forecast_days", 3), 1, 5)
		fc := v.Series[:lo.Min([]int{days, len(v.Series)})]
		w := (x.rect.Dx() - 24) / len(fc)
		y := x.rect.Max.Y - 14
		for i, t := range fc {
			cx := x.rect.Min.X + 12 + i*w + w/2
			x.c.Text(fmt.Sprintf("+%dd", i+1), cx, y-10, x.f.Tiny, ColorGray, AnchorMid)
			x.c.Text(formatNumber(t)+"°", cx, y+4, x.f.Small, ColorWhite, AnchorMid)
		}
	}
}

func renderMedia(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()
	if !ok || v.Text == "" {
		x.placeholder()
		return
	}

	x.c.Panel(x.rect, ColorPanel, 4)

	iconSize := 20
	x.c.Icon("note", x.rect.Min.X+12, x.rect.Min.Y+12, iconSize, x.accent())
	x.c.Text(x.truncate(v.Text, x.f.Medium), x.rect.Min.X+12+iconSize+8, x.rect.Min.Y+12+iconSize/2, x.f.Medium, ColorWhite, AnchorMidLeft)

	y := x.rect.Min.Y + 12 + iconSize + 14
	if o.Bool("show_artist", true) && v.Attrs["artist"] != "" {
		x.c.Text(x.truncate(v.Attrs["artist"], x.f.Small), x.rect.Min.X+12, y, x.f.Small, ColorGray, AnchorMidLeft)
		y += 14
	}
	if o.Bool("show_album", false) && v.Attrs["album"] != "" {
		x.c.Text(x.truncate(v.Attrs["album"], x.f.Tiny), x.rect.Min.X+12, y, x.f.Tiny, ColorGray, AnchorMidLeft)
	}

	if o.Bool("show_progress", false) && v.IsNum {
		bar := image.Rect(x.rect.Min.X+12, x.rect.Max.Y-16, x.rect.Max.X-12, x.rect.Max.Y-10)
		x.c.Bar(bar, v.Number, x.accent(), ColorDarkGray)
	}
}

func renderClock(x *widgetCtx) {
	o := x.w.Options
	now := x.snap.Now

	hm := now.Format("15:04")
	if o.String("time_format", "24h") == "12h" {
		hm = now.Format("3:04")
	}

	face := x.f.Huge
	if x.rect.Dy() < 100 {
		face = x.f.Large
	}

	cx := x.centerX()
	cy := x.centerY()
	if o.Bool("show_date", false) {
		cy -= 10
	}

	x.c.Text(hm, cx, cy, face, ColorWhite, AnchorMid)
	if o.Bool("show_seconds", false) {
		x.c.Text(":"+now.Format("05"), cx+x.c.TextWidth(hm, face)/2+4, cy-6, x.f.Medium, ColorGray, AnchorMidLeft)
	}
	if o.Bool("show_date", false) {
		x.c.Text(now.Format("Monday, January 2"), cx, cy+face.Metrics().Ascent.Round()/2+14, x.f.Small, ColorGray, AnchorMid)
	}
}

var textFaceNames = map[string]func(*Faces) font.Face{
	"tiny":   func(f *Faces) font.Face { return f.Tiny },
	"small":  func(f *Faces) font.Face { return f.Small },
	"medium": func(f *Faces) font.Face { return f.Medium },
	"large":  func(f *Faces) font.Face { return f.Large },
}

func renderText(x *widgetCtx) {
	o := x.w.Options
	text := o.String("text", "")
	if text == "" {
		return
	}

	pick, ok := textFaceNames[o.String("size", "medium")]
	if !ok {
		pick = textFaceNames["medium"]
	}
	face := pick(x.f)

	switch o.String("align", "center") {
	case "left":
		x.c.Text(x.truncate(text, face), x.rect.Min.X+4, x.centerY(), face, ColorWhite, AnchorMidLeft)
	case "right":
		x.c.Text(x.truncate(text, face), x.rect.Max.X-4, x.centerY(), face, ColorWhite, AnchorMidRight)
	default:
		x.c.Text(x.truncate(text, face), x.centerX(), x.centerY(), face, ColorWhite, AnchorMid)
	}
}

func renderCamera(x *widgetCtx) {
	o := x.w.Options
	v, ok := x.value()

	if !ok || v.Image == nil {
		x.c.Panel(x.rect, ColorPanel, 4)
		size := 24
		x.c.Icon("camera", x.centerX()-size/2, x.centerY()-size, size, ColorDarkGray)
		x.c.Text("NO SIGNAL", x.centerX(), x.centerY()+10, x.f.Tiny, ColorGray, AnchorMid)
		return
	}

	var thumb image.Image
	if o.String("fit", "cover") == "contain" {
		thumb = imaging.Fit(v.Image, x.rect.Dx(), x.rect.Dy(), imaging.Lanczos)
	} else {
		thumb = imaging.Fill(v.Image, x.rect.Dx(), x.rect.Dy(), imaging.Center, imaging.Lanczos)
	}

	at := image.Rect(
		x.rect.Min.X+(x.rect.Dx()-thumb.Bounds().Dx())/2,
		x.rect.Min.Y+(x.rect.Dy()-thumb.Bounds().Dy())/2,
		x.rect.Max.X, x.rect.Max.Y,
	)
	x.c.Draw(at, thumb)

	if o.Bool("show_label", false) {
		if name := x.label(); name != "" {
			strip := image.Rect(x.rect.Min.X, x.rect.Max.Y-16, x.rect.Max.X, x.rect.Max.Y)
			x.c.Panel(strip, color.RGBA{A: 160}, 0)
			x.c.Text(x.truncate(name, x.f.Tiny), x.centerX(), x.rect.Max.Y-8, x.f.Tiny, ColorWhite, AnchorMid)
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatNumber renders values the way the display wants them: integers
// bare, everything else with one decimal.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
