// Package matrix emulates a character LCD on a pixel display.
//
// A Matrix keeps eight custom glyph slots and a grid of character cells, and
// paints them onto any periph.io display.Drawer such as an SSD1306 OLED.
// Like the HD44780 CGRAM, redefining a glyph repaints every cell that
// shows it.
//
// Only the rectangle covering the cells changed by a call is sent to the
// drawer, which keeps slow I²C displays responsive while digits roll.
package matrix

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/flavioheleno/pushwheel/glyph"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// GlyphSlots is the number of custom glyphs a Matrix holds.
const GlyphSlots = 8

// blank marks a cell showing nothing.
const blank = -1

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("matrix: halted")

// Opts is the configuration for a Matrix.
type Opts struct {
	// Grid size in characters
	Rows int // Rows (default: 2)
	Cols int // Columns (default: 16)

	// Pixels per glyph pixel (default: 1)
	Scale int
}

// Matrix is a character grid drawn on a pixel display.
type Matrix struct {
	dst display.Drawer

	// Geometry
	rows, cols int
	scale      int

	// Character memory
	glyphs [GlyphSlots]glyph.Glyph
	cells  []int
	row    int
	col    int

	// Pixel buffer and the region not yet sent to dst
	fb    *image.Gray
	dirty image.Rectangle

	halted bool
}

// New creates a Matrix drawing on dst and clears its area.
//
// opts can be nil to use defaults (16x2 cells at scale 1).
func New(dst display.Drawer, opts *Opts) (*Matrix, error) {
	if dst == nil {
		return nil, errors.New("matrix: display is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	rows, cols, scale := opts.Rows, opts.Cols, opts.Scale
	if rows == 0 {
		rows = 2
	}
	if cols == 0 {
		cols = 16
	}
	if scale == 0 {
		scale = 1
	}
	if rows < 0 || cols < 0 || scale < 0 {
		return nil, errors.New("matrix: rows, columns and scale must be positive")
	}

	m := &Matrix{
		dst:   dst,
		rows:  rows,
		cols:  cols,
		scale: scale,
		cells: make([]int, rows*cols),
	}
	px, py := m.pitch()
	area := image.Rect(0, 0, cols*px, rows*py)
	if !area.In(dst.Bounds()) {
		return nil, fmt.Errorf("matrix: %dx%d cells need %v, display is %v", cols, rows, area.Size(), dst.Bounds().Size())
	}
	m.fb = image.NewGray(area)

	if err := m.Clear(); err != nil {
		return nil, err
	}
	return m, nil
}

// pitch returns the size of a cell including the one pixel gap to its
// neighbours.
func (m *Matrix) pitch() (x, y int) {
	return (glyph.Cols + 1) * m.scale, (glyph.Rows + 1) * m.scale
}

// cellRect returns the pixels covered by the glyph of cell (row, col).
func (m *Matrix) cellRect(row, col int) image.Rectangle {
	px, py := m.pitch()
	origin := image.Pt(col*px, row*py)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(glyph.Cols*m.scale, glyph.Rows*m.scale))}
}

// paint redraws cell i into the pixel buffer.
func (m *Matrix) paint(i int) {
	r := m.cellRect(i/m.cols, i%m.cols)
	draw.Draw(m.fb, r, image.Black, image.Point{}, draw.Src)
	if slot := m.cells[i]; slot != blank {
		g := m.glyphs[slot]
		draw.NearestNeighbor.Scale(m.fb, r, g, g.Bounds(), draw.Src, nil)
	}
	m.dirty = m.dirty.Union(r)
}

// flush sends the dirty region to the display.
func (m *Matrix) flush() error {
	if m.dirty.Empty() {
		return nil
	}
	r := m.dirty
	m.dirty = image.Rectangle{}
	if err := m.dst.Draw(r, m.fb, r.Min); err != nil {
		return fmt.Errorf("matrix: draw: %w", err)
	}
	return nil
}

// DefineGlyph stores g as custom glyph slot (0-7) and repaints the cells
// showing it.
func (m *Matrix) DefineGlyph(slot int, g glyph.Glyph) error {
	if m.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("matrix: glyph slot out of range")
	}
	g = g.Masked()
	if m.glyphs[slot] == g {
		return nil
	}
	m.glyphs[slot] = g
	for i, s := range m.cells {
		if s == slot {
			m.paint(i)
		}
	}
	return m.flush()
}

// SetCursor moves the write position to the given cell.
func (m *Matrix) SetCursor(row, col int) error {
	if m.halted {
		return ErrHalted
	}
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return errors.New("matrix: cursor out of range")
	}
	m.row, m.col = row, col
	return nil
}

// WriteGlyph shows custom glyph slot at the cursor and moves the cursor right.
func (m *Matrix) WriteGlyph(slot int) error {
	if m.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("matrix: glyph slot out of range")
	}
	if m.col >= m.cols {
		return errors.New("matrix: cursor past end of row")
	}
	i := m.row*m.cols + m.col
	m.col++
	if m.cells[i] == slot {
		return nil
	}
	m.cells[i] = slot
	m.paint(i)
	return m.flush()
}

// Clear blanks every cell and moves the cursor to the top-left cell.
func (m *Matrix) Clear() error {
	if m.halted {
		return ErrHalted
	}
	for i := range m.cells {
		m.cells[i] = blank
	}
	m.row, m.col = 0, 0
	draw.Draw(m.fb, m.fb.Rect, image.Black, image.Point{}, draw.Src)
	m.dirty = m.fb.Rect
	return m.flush()
}

// ColorModel returns the color model of the pixel buffer.
func (m *Matrix) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds returns the pixel area covered by the cells.
func (m *Matrix) Bounds() image.Rectangle {
	return m.fb.Rect
}

// At returns the color of the pixel at (x, y) as last painted.
// It implements the image.Image interface.
func (m *Matrix) At(x, y int) color.Color {
	return m.fb.At(x, y)
}

// Halt halts the underlying display.
func (m *Matrix) Halt() error {
	m.halted = true
	return m.dst.Halt()
}

// String returns a string representation of the matrix.
func (m *Matrix) String() string {
	return fmt.Sprintf("matrix.Matrix{%dx%d on %s}", m.cols, m.rows, m.dst)
}
