package render

import "github.com/lucasb-eyer/go-colorful"

func colorfulHex(s string) (colorful.Color, error) {
	return colorful.Hex(s)
}
