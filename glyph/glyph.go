package glyph

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

const (
	// Rows is the number of pixel rows in a glyph.
	Rows = 8
	// Cols is the number of meaningful pixel columns in each row.
	Cols = 5

	rowMask = 1<<Cols - 1
)

// Glyph is a 5x8 character bitmap, one byte per row.
// Only the lower 5 bits of each row are used.
type Glyph [Rows]byte

// ColorModel returns the color model of the glyph.
func (g Glyph) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds returns the glyph bounds, always 5x8 anchored at the origin.
func (g Glyph) Bounds() image.Rectangle {
	return image.Rect(0, 0, Cols, Rows)
}

// At returns white for a lit pixel and black otherwise.
// It implements the image.Image interface.
func (g Glyph) At(x, y int) color.Color {
	if g.Lit(x, y) {
		return color.Gray{Y: 0xFF}
	}
	return color.Gray{}
}

// RGBA64At returns opaque white for a lit pixel and opaque black otherwise.
// It implements the image.RGBA64Image interface, which x/image/draw scalers
// require of the source when drawing into an *image.Gray.
func (g Glyph) RGBA64At(x, y int) color.RGBA64 {
	if g.Lit(x, y) {
		return color.RGBA64{R: 0xFFFF, G: 0xFFFF, B: 0xFFFF, A: 0xFFFF}
	}
	return color.RGBA64{A: 0xFFFF}
}

// Lit reports whether the pixel at (x, y) is set.
func (g Glyph) Lit(x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(g.Bounds())) {
		return false
	}
	return (g[y]>>(Cols-1-x))&1 == 1
}

// Masked returns a copy of g with the unused high bits of every row cleared.
func (g Glyph) Masked() Glyph {
	for i := range g {
		g[i] &= rowMask
	}
	return g
}

// String renders the glyph as rows of '#' and '.', separated by '/'.
func (g Glyph) String() string {
	var b strings.Builder
	for y := 0; y < Rows; y++ {
		if y > 0 {
			b.WriteByte('/')
		}
		for x := 0; x < Cols; x++ {
			if g.Lit(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// Table maps digit values 0-9 to their reference glyph.
type Table [10]Glyph

// For returns the glyph for digit d.
//
// d must be in 0-9; callers derive digits with modulo 10 so anything else is
// a programming error and panics.
func (t *Table) For(d int) Glyph {
	if d < 0 || d > 9 {
		panic(fmt.Sprintf("glyph: digit %d out of range", d))
	}
	return t[d]
}

// HD44780 holds the digit shapes of the HD44780 character ROM (A00).
// Blending only looks right when these match the shapes the display itself
// draws for '0'-'9'.
var HD44780 = Table{
	{0b01110, 0b10001, 0b10011, 0b10101, 0b11001, 0b10001, 0b01110, 0b00000},
	{0b00100, 0b01100, 0b00100, 0b00100, 0b00100, 0b00100, 0b01110, 0b00000},
	{0b01110, 0b10001, 0b00001, 0b00010, 0b00100, 0b01000, 0b11111, 0b00000},
	{0b11111, 0b00010, 0b00100, 0b00010, 0b00001, 0b10001, 0b01110, 0b00000},
	{0b00010, 0b00110, 0b01010, 0b10010, 0b11111, 0b00010, 0b00010, 0b00000},
	{0b11111, 0b10000, 0b11110, 0b00001, 0b00001, 0b10001, 0b01110, 0b00000},
	{0b00110, 0b01000, 0b10000, 0b11110, 0b10001, 0b10001, 0b01110, 0b00000},
	{0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b01000, 0b01000, 0b00000},
	{0b01110, 0b10001, 0b10001, 0b01110, 0b10001, 0b10001, 0b01110, 0b00000},
	{0b01110, 0b10001, 0b10001, 0b01111, 0b00001, 0b00010, 0b01100, 0b00000},
}
