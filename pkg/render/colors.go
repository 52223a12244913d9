package render

import "image/color"

// Display palette. Dark background with saturated accents reads well on the
// small TFT panel.
var (
	ColorBackground = color.RGBA{R: 0x0a, G: 0x0a, B: 0x0f, A: 0xff}
	ColorPanel      = color.RGBA{R: 0x1c, G: 0x1c, B: 0x26, A: 0xff}
	ColorWhite      = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	ColorGray       = color.RGBA{R: 0x8a, G: 0x8a, B: 0x96, A: 0xff}
	ColorDarkGray   = color.RGBA{R: 0x2e, G: 0x2e, B: 0x3a, A: 0xff}
	ColorTeal       = color.RGBA{R: 0x2d, G: 0xd4, B: 0xbf, A: 0xff}
	ColorPurple     = color.RGBA{R: 0xa7, G: 0x8b, B: 0xfa, A: 0xff}
	ColorOrange     = color.RGBA{R: 0xfb, G: 0x92, B: 0x3c, A: 0xff}
	ColorLime       = color.RGBA{R: 0xa3, G: 0xe6, B: 0x35, A: 0xff}
	ColorPink       = color.RGBA{R: 0xf4, G: 0x72, B: 0xb6, A: 0xff}
	ColorBlue       = color.RGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}
	ColorRed        = color.RGBA{R: 0xf8, G: 0x71, B: 0x71, A: 0xff}
	ColorYellow     = color.RGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}
)

// Dim returns a darkened variant of c, used for inactive ring tracks and
// secondary chrome. Pure function of the input.
func Dim(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{
		R: uint8(float64(r>>8) * 0.3),
		G: uint8(float64(g>>8) * 0.3),
		B: uint8(float64(b>>8) * 0.3),
		A: uint8(a >> 8),
	}
}
