package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// legacyBlend mixes every channel of fg with the background's blue channel,
// matching frames produced before the per-channel blend.
func legacyBlend(fg, bg colorful.Color, intensity float64) color.RGBA {
	mix := func(v float64) float64 {
		return intensity*v + (1-intensity)*bg.B
	}
	return toRGBA(colorful.Color{R: mix(fg.R), G: mix(fg.G), B: mix(fg.B)})
}
