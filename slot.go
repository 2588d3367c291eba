package pushwheel

import (
	"time"

	"github.com/flavioheleno/pushwheel/glyph"
)

// Slot is the animation state of one digit position.
//
// A slot is settled when its previous and current values match. While it is
// not, every Tick spaced at least one frame interval after the last frame
// advances the displayed bitmap one row further from the previous glyph
// towards the current one.
type Slot struct {
	table    *glyph.Table
	interval time.Duration

	prev, cur int
	progress  int
	lastFrame time.Time
	bitmap    glyph.Glyph
}

// NewSlot creates a slot that draws digits from table and advances at most
// one frame per interval. The slot starts settled on 0.
func NewSlot(table *glyph.Table, interval time.Duration) *Slot {
	s := &Slot{
		table:    table,
		interval: interval,
	}
	s.Seed(0)
	return s
}

// Seed settles the slot on v without animating.
func (s *Slot) Seed(v int) {
	s.prev = v
	s.cur = v
	s.progress = 0
	s.lastFrame = time.Time{}
	s.bitmap = s.table.For(v)
}

// Retarget starts rolling towards v. now restarts the frame timer, so the
// first frame follows one interval later.
//
// Retarget is meant for settled slots. On a slot that is still rolling the
// animation restarts from the previous settled digit, and retargeting back to
// that digit snaps the bitmap to it.
func (s *Slot) Retarget(v int, now time.Time) {
	if v == s.cur {
		return
	}
	s.cur = v
	s.progress = 0
	s.lastFrame = now
	if s.Settled() {
		s.bitmap = s.table.For(v)
	}
}

// Tick advances the animation by one frame if the slot is rolling and the
// frame interval has elapsed since the last frame. It reports whether the
// bitmap changed and must be pushed to the display.
func (s *Slot) Tick(now time.Time, dir glyph.Direction) bool {
	if s.Settled() {
		return false
	}
	if now.Sub(s.lastFrame) < s.interval {
		return false
	}

	s.bitmap = glyph.Roll(s.table.For(s.prev), s.table.For(s.cur), s.progress, dir)
	s.progress++
	s.lastFrame = now
	if s.progress > glyph.Rows {
		s.prev = s.cur
	}
	return true
}

// Settled reports whether the slot is showing its current value at rest.
func (s *Slot) Settled() bool {
	return s.prev == s.cur
}

// Value returns the digit the slot is showing or rolling towards.
func (s *Slot) Value() int {
	return s.cur
}

// Previous returns the digit the slot last settled on.
func (s *Slot) Previous() int {
	return s.prev
}

// Progress returns the number of frames produced since the last retarget.
func (s *Slot) Progress() int {
	return s.progress
}

// Bitmap returns the glyph currently shown by the slot.
func (s *Slot) Bitmap() glyph.Glyph {
	return s.bitmap
}
