package render

import (
	"image"
	"image/color"
	"math"

	"github.com/roach88/blkbuster/internal/geometry"
)

// strokeLine paints every pixel of img within radius of the segment l,
// restricted to clip. The result is a line with round caps.
func strokeLine(img *image.RGBA, clip image.Rectangle, l geometry.Line, radius int, c color.RGBA) {
	x0, x1 := min(l.From.X, l.To.X), max(l.From.X, l.To.X)
	y0, y1 := min(l.From.Y, l.To.Y), max(l.From.Y, l.To.Y)
	box := image.Rect(x0-radius, y0-radius, x1+radius+1, y1+radius+1).Intersect(clip).Intersect(img.Rect)
	if box.Empty() {
		return
	}

	if l.From.Y == l.To.Y {
		// Horizontal: each scanline is a single run widened by the cap.
		y := l.From.Y
		for py := box.Min.Y; py < box.Max.Y; py++ {
			dy := py - y
			dx := int(math.Sqrt(float64(radius*radius - dy*dy)))
			fillSpan(img, py, max(x0-dx, box.Min.X), min(x1+dx, box.Max.X-1), c)
		}
		return
	}

	r2 := float64(radius * radius)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			if distSq(px, py, l) <= r2 {
				fillSpan(img, py, px, px, c)
			}
		}
	}
}

// distSq is the squared distance from (px, py) to segment l.
func distSq(px, py int, l geometry.Line) float64 {
	ax, ay := float64(l.From.X), float64(l.From.Y)
	bx, by := float64(l.To.X), float64(l.To.Y)
	dx, dy := bx-ax, by-ay
	t := ((float64(px)-ax)*dx + (float64(py)-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	ex, ey := float64(px)-(ax+t*dx), float64(py)-(ay+t*dy)
	return ex*ex + ey*ey
}

// fillSpan sets pixels [xa, xb] on row y.
func fillSpan(img *image.RGBA, y, xa, xb int, c color.RGBA) {
	if xb < xa {
		return
	}
	i := img.PixOffset(xa, y)
	for x := xa; x <= xb; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}
