package geometry

import (
	"fmt"
	"image"
	"math"
)

// Mapper converts byte offsets to logical grid and screen coordinates.
type Mapper struct {
	maxOffset uint64
	width     int
	height    int
	rows      int
	cols      float64
	inset     image.Rectangle
}

// Segment is a horizontal run on one logical row, from column From to To.
type Segment struct {
	Row  int
	From float64
	To   float64
}

// Line is a segment projected to screen pixels.
type Line struct {
	From image.Point
	To   image.Point
}

// NewMapper returns a mapper for an address space of maxOffset bytes drawn
// on a width x height canvas folded into the given number of stripes.
func NewMapper(maxOffset uint64, width, height, stripes int) (*Mapper, error) {
	if maxOffset == 0 {
		return nil, fmt.Errorf("geometry: max offset must be positive")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("geometry: canvas %dx%d must be positive", width, height)
	}
	if stripes <= 0 {
		return nil, fmt.Errorf("geometry: stripes must be positive, got %d", stripes)
	}
	inset := Inset(width, height)
	if inset.Empty() {
		return nil, fmt.Errorf("geometry: canvas %dx%d too small for an inset", width, height)
	}
	return &Mapper{
		maxOffset: maxOffset,
		width:     width,
		height:    height,
		rows:      stripes,
		cols:      float64(stripes) * float64(width) / float64(height),
		inset:     inset,
	}, nil
}

// Inset returns the drawable rectangle of a width x height canvas: 80% of
// each dimension, offset by 10%.
func Inset(width, height int) image.Rectangle {
	x, y := width/10, height/10
	return image.Rect(x, y, x+width*8/10, y+height*8/10)
}

// Rows is the logical grid height.
func (m *Mapper) Rows() int { return m.rows }

// Cols is the logical grid width. It may be fractional.
func (m *Mapper) Cols() float64 { return m.cols }

// Inset returns the drawable rectangle.
func (m *Mapper) Inset() image.Rectangle { return m.inset }

// MaxOffset returns the address-space extent.
func (m *Mapper) MaxOffset() uint64 { return m.maxOffset }

// OffsetToLogical folds offset into the logical grid. Row is clamped to
// [0, Rows-1] and col to [0, Cols], so offset == MaxOffset lands at the right
// edge of the last row.
func (m *Mapper) OffsetToLogical(offset uint64) (row int, col float64) {
	frac := float64(offset) / float64(m.maxOffset) * float64(m.rows)
	row = clampInt(int(math.Floor(frac)), 0, m.rows-1)
	col = (frac - float64(row)) * m.cols
	return row, math.Max(0, math.Min(col, m.cols))
}

// LogicalToScreen scales logical coordinates into the inset rectangle. The
// result is truncated to whole pixels and always lies inside the inset.
func (m *Mapper) LogicalToScreen(row int, col float64) (pxRow, pxCol int) {
	h := float64(m.inset.Dy())
	w := float64(m.inset.Dx())
	pxRow = m.inset.Min.Y + int(h*float64(row)/float64(m.rows))
	pxCol = m.inset.Min.X + int(w*col/m.cols)
	return clampInt(pxRow, m.inset.Min.Y, m.inset.Max.Y-1),
		clampInt(pxCol, m.inset.Min.X, m.inset.Max.X-1)
}

// OffsetToScreen composes OffsetToLogical and LogicalToScreen.
func (m *Mapper) OffsetToScreen(offset uint64) (pxRow, pxCol int) {
	return m.LogicalToScreen(m.OffsetToLogical(offset))
}

// Segments splits the byte range [offset, offset+size) into one segment per
// logical row it touches. The first segment starts at the first byte's
// column, rows in between span the full width, and the last segment ends at
// the last byte's column. Size must be positive.
func (m *Mapper) Segments(offset, size uint64) []Segment {
	r1, c1 := m.OffsetToLogical(offset)
	r2, c2 := m.OffsetToLogical(offset + size - 1)

	segs := make([]Segment, 0, r2-r1+1)
	for r := r1; r < r2; r++ {
		segs = append(segs, Segment{Row: r, From: c1, To: m.cols})
		c1 = 0
	}
	return append(segs, Segment{Row: r2, From: c1, To: c2})
}

// Project converts a logical segment into screen pixels.
func (m *Mapper) Project(s Segment) Line {
	y0, x0 := m.LogicalToScreen(s.Row, s.From)
	y1, x1 := m.LogicalToScreen(s.Row, s.To)
	return Line{From: image.Pt(x0, y0), To: image.Pt(x1, y1)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
