// Package demo fabricates plausible sensor values so screens can be
// rendered and pushed without a host integration attached.
package demo

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"geekmagic/pkg/render"
)

type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(seed int64) *Source {
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

// Value synthesizes a reading from hints in the reference name, e.g.
// "sensor.cpu_usage" gets a percentage, "weather.home" a forecast.
func (s *Source) Value(_ context.Context, ref string) (render.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := render.Value{Name: refName(ref)}

	switch {
	case strings.Contains(ref, "weather"):
		v.IsNum = true
		v.Number = s.between(12, 28)
		v.Attrs = map[string]string{
			"condition": pick(s.rnd, "sunny", "cloudy", "rainy", "partlycloudy"),
			"temp_high": strconv.Itoa(int(s.between(18, 30))),
			"temp_low":  strconv.Itoa(int(s.between(5, 15))),
			"humidity":  strconv.Itoa(int(s.between(35, 80))),
		}
		v.Series = s.series(5, 12, 28)
	case strings.Contains(ref, "media"):
		v.Text = "Midnight City"
		v.IsNum = true
		v.Number = s.between(0, 100)
		v.Attrs = map[string]string{"artist": "M83", "album": "Hurry Up, We're Dreaming"}
	case strings.Contains(ref, "camera"):
		v.Image = testPattern()
	case strings.Contains(ref, "motion"), strings.Contains(ref, "door"),
		strings.Contains(ref, "presence"), strings.Contains(ref, "lock"),
		strings.Contains(ref, "alarm"):
		v.On = s.rnd.Intn(2) == 1
	case strings.Contains(ref, "power"):
		v.IsNum = true
		v.Number = s.between(200, 3500)
		v.Unit = "W"
		v.Series = s.series(30, 200, 3500)
	case strings.Contains(ref, "temp"):
		v.IsNum = true
		v.Number = s.between(17, 26)
		v.Unit = "°C"
		v.Series = s.series(25, 17, 26)
	case strings.Contains(ref, "humidity"):
		v.IsNum = true
		v.Number = s.between(30, 70)
		v.Unit = "%"
	default:
		v.IsNum = true
		v.Number = s.between(10, 90)
		v.Unit = "%"
		v.Series = s.series(25, 10, 90)
	}

	return v, true
}

func (s *Source) between(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

func (s *Source) series(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.between(lo, hi)
	}
	return out
}

func pick(rnd *rand.Rand, opts ...string) string {
	return opts[rnd.Intn(len(opts))]
}

// refName turns "sensor.cpu_usage" into "Cpu Usage".
func refName(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		ref = ref[i+1:]
	}
	words := strings.FieldsFunc(ref, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// testPattern is the stand-in camera frame: color bars.
func testPattern() image.Image {
	bars := []color.RGBA{
		{0xc0, 0xc0, 0xc0, 0xff}, {0xc0, 0xc0, 0x00, 0xff}, {0x00, 0xc0, 0xc0, 0xff},
		{0x00, 0xc0, 0x00, 0xff}, {0xc0, 0x00, 0xc0, 0xff}, {0xc0, 0x00, 0x00, 0xff},
		{0x00, 0x00, 0xc0, 0xff},
	}

	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for x := 0; x < 160; x++ {
		c := bars[x*len(bars)/160]
		for y := 0; y < 120; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
