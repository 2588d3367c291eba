package matrix

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/flavioheleno/pushwheel"
	"github.com/flavioheleno/pushwheel/glyph"
)

var _ pushwheel.Display = (*Matrix)(nil)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeDrawer copies every drawn region into its own image.
type fakeDrawer struct {
	img    *image.Gray
	draws  []image.Rectangle
	err    error
	halted bool
}

func newFakeDrawer(w, h int) *fakeDrawer {
	return &fakeDrawer{img: image.NewGray(image.Rect(0, 0, w, h))}
}

func (f *fakeDrawer) String() string          { return "fake" }
func (f *fakeDrawer) Halt() error             { f.halted = true; return nil }
func (f *fakeDrawer) ColorModel() color.Model { return color.GrayModel }
func (f *fakeDrawer) Bounds() image.Rectangle { return f.img.Rect }

func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if f.err != nil {
		return f.err
	}
	draw.Draw(f.img, r, src, sp, draw.Src)
	f.draws = append(f.draws, r)
	return nil
}

// lit reports whether glyph pixel (x, y) of cell (row, col) is on, that is
// every display pixel it is scaled to is white. A partly lit block reads as
// off.
func lit(f *fakeDrawer, scale, row, col, x, y int) bool {
	px, py := (glyph.Cols+1)*scale, (glyph.Rows+1)*scale
	for dy := 0; dy < scale; dy++ {
		for dx := 0; dx < scale; dx++ {
			if f.img.GrayAt(col*px+x*scale+dx, row*py+y*scale+dy).Y != 0xFF {
				return false
			}
		}
	}
	return true
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"scaled 8 digits", &Opts{Rows: 1, Cols: 8, Scale: 2}, false},
		{"negative rows", &Opts{Rows: -1}, true},
		{"negative scale", &Opts{Scale: -2}, true},
		{"too wide for display", &Opts{Cols: 22}, true},
		{"too tall when scaled", &Opts{Rows: 2, Cols: 8, Scale: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newFakeDrawer(128, 64), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestNewClears(t *testing.T) {
	f := newFakeDrawer(128, 64)
	for i := range f.img.Pix {
		f.img.Pix[i] = 0xFF
	}
	m, err := New(f, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := image.Rect(0, 0, 16*6, 2*9)
	if m.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", m.Bounds(), want)
	}
	if len(f.draws) != 1 || f.draws[0] != want {
		t.Fatalf("draws = %v, want one draw of %v", f.draws, want)
	}
	if f.img.GrayAt(0, 0).Y != 0 || f.img.GrayAt(95, 17).Y != 0 {
		t.Error("cell area not cleared")
	}
	if f.img.GrayAt(100, 0).Y != 0xFF {
		t.Error("pixels outside the cells were touched")
	}
}

func TestWriteGlyphDrawsCell(t *testing.T) {
	one := glyph.HD44780.For(1)

	tests := []struct {
		name  string
		scale int
		want  image.Rectangle
	}{
		{"scale 1", 1, image.Rect(3*6, 9, 3*6+5, 9+8)},
		{"scale 2", 2, image.Rect(3*12, 18, 3*12+10, 18+16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDrawer(128, 64)
			m, err := New(f, &Opts{Rows: 2, Cols: 8, Scale: tt.scale})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			f.draws = nil

			if err := m.DefineGlyph(0, one); err != nil {
				t.Fatalf("DefineGlyph() error = %v", err)
			}
			if len(f.draws) != 0 {
				t.Errorf("defining an unused glyph drew %v", f.draws)
			}

			if err := m.SetCursor(1, 3); err != nil {
				t.Fatalf("SetCursor() error = %v", err)
			}
			if err := m.WriteGlyph(0); err != nil {
				t.Fatalf("WriteGlyph() error = %v", err)
			}

			if len(f.draws) != 1 || f.draws[0] != tt.want {
				t.Fatalf("draws = %v, want one draw of %v", f.draws, tt.want)
			}
			for y := 0; y < glyph.Rows; y++ {
				for x := 0; x < glyph.Cols; x++ {
					if got := lit(f, tt.scale, 1, 3, x, y); got != one.Lit(x, y) {
						t.Errorf("pixel (%d, %d) lit = %v, want %v", x, y, got, one.Lit(x, y))
					}
				}
			}
			if m.At(tt.want.Min.X+2*tt.scale, tt.want.Min.Y) != (color.Gray{Y: 0xFF}) {
				t.Error("At() does not reflect the painted glyph")
			}
		})
	}
}

func TestDefineGlyphRepaintsCells(t *testing.T) {
	f := newFakeDrawer(128, 64)
	m, err := New(f, &Opts{Rows: 1, Cols: 4})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for col, slot := range []int{2, 5, 2} {
		if err := m.DefineGlyph(slot, glyph.HD44780.For(slot)); err != nil {
			t.Fatalf("DefineGlyph() error = %v", err)
		}
		if err := m.SetCursor(0, col); err != nil {
			t.Fatalf("SetCursor() error = %v", err)
		}
		if err := m.WriteGlyph(slot); err != nil {
			t.Fatalf("WriteGlyph() error = %v", err)
		}
	}
	f.draws = nil

	eight := glyph.HD44780.For(8)
	if err := m.DefineGlyph(2, eight); err != nil {
		t.Fatalf("DefineGlyph() error = %v", err)
	}

	// Cells 0 and 2 show slot 2; one draw covers both.
	want := image.Rect(0, 0, 2*6+5, 8)
	if len(f.draws) != 1 || f.draws[0] != want {
		t.Fatalf("draws = %v, want one draw of %v", f.draws, want)
	}
	for _, col := range []int{0, 2} {
		for y := 0; y < glyph.Rows; y++ {
			for x := 0; x < glyph.Cols; x++ {
				if lit(f, 1, 0, col, x, y) != eight.Lit(x, y) {
					t.Fatalf("cell %d pixel (%d, %d) does not show the new glyph", col, x, y)
				}
			}
		}
	}
	five := glyph.HD44780.For(5)
	for y := 0; y < glyph.Rows; y++ {
		for x := 0; x < glyph.Cols; x++ {
			if lit(f, 1, 0, 1, x, y) != five.Lit(x, y) {
				t.Fatalf("cell 1 pixel (%d, %d) changed", x, y)
			}
		}
	}

	f.draws = nil
	if err := m.DefineGlyph(2, eight); err != nil {
		t.Fatalf("DefineGlyph() error = %v", err)
	}
	if len(f.draws) != 0 {
		t.Errorf("redefining an identical glyph drew %v", f.draws)
	}
}

func TestCursorChecks(t *testing.T) {
	m, err := New(newFakeDrawer(128, 64), &Opts{Rows: 1, Cols: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.SetCursor(1, 0); err == nil {
		t.Error("SetCursor(1, 0) should fail on a 1-row matrix")
	}
	if err := m.SetCursor(0, 1); err != nil {
		t.Fatalf("SetCursor() error = %v", err)
	}
	if err := m.WriteGlyph(0); err != nil {
		t.Fatalf("WriteGlyph() error = %v", err)
	}
	if err := m.WriteGlyph(0); err == nil {
		t.Error("WriteGlyph past the last column should fail")
	}
	if err := m.DefineGlyph(GlyphSlots, glyph.Glyph{}); err == nil {
		t.Error("DefineGlyph(8) should fail")
	}
}

func TestDrawError(t *testing.T) {
	f := newFakeDrawer(128, 64)
	m, err := New(f, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	errBus := errors.New("i2c nack")
	f.err = errBus
	if err := m.WriteGlyph(1); !errors.Is(err, errBus) {
		t.Errorf("WriteGlyph() error = %v, want wrapped %v", err, errBus)
	}
}

func TestMatrixHalt(t *testing.T) {
	f := newFakeDrawer(128, 64)
	m, err := New(f, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, want := m.String(), "matrix.Matrix{16x2 on fake}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if err := m.Halt(); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
	if !f.halted {
		t.Error("Halt() did not halt the display")
	}
	if err := m.WriteGlyph(0); !errors.Is(err, ErrHalted) {
		t.Errorf("WriteGlyph after Halt: error = %v, want ErrHalted", err)
	}
	if err := m.Clear(); !errors.Is(err, ErrHalted) {
		t.Errorf("Clear after Halt: error = %v, want ErrHalted", err)
	}
}

func TestCounterOnMatrix(t *testing.T) {
	f := newFakeDrawer(128, 64)
	m, err := New(f, &Opts{Rows: 1, Cols: 8, Scale: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := pushwheel.New(m, &pushwheel.Opts{Digits: 3, Col: 5})
	if err != nil {
		t.Fatalf("pushwheel.New() error = %v", err)
	}

	if _, err := c.Poll(epoch, 907); err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	for i, d := range []int{9, 0, 7} {
		g := glyph.HD44780.For(d)
		for y := 0; y < glyph.Rows; y++ {
			for x := 0; x < glyph.Cols; x++ {
				if lit(f, 2, 0, 5+i, x, y) != g.Lit(x, y) {
					t.Fatalf("cell %d does not show %d", 5+i, d)
				}
			}
		}
	}
}
