package pushwheel

import (
	"errors"
	"fmt"
	"time"

	"github.com/flavioheleno/pushwheel/glyph"
)

const (
	// MaxDigits is the number of custom glyphs an HD44780 can hold at once,
	// and therefore the widest counter that can be animated.
	MaxDigits = 8

	// DefaultFrameInterval is the time between two frames of a rolling digit.
	DefaultFrameInterval = 50 * time.Millisecond
)

// ErrOverflow is returned by Poll in strict mode when a value has more digits
// than the counter has slots.
var ErrOverflow = errors.New("pushwheel: value exceeds digit capacity")

// Display is the character display the counter draws on.
//
// Glyph slot i is bound to digit position i, counting from the left.
type Display interface {
	// DefineGlyph uploads g as custom character slot.
	DefineGlyph(slot int, g glyph.Glyph) error
	// SetCursor moves the write position to the given cell.
	SetCursor(row, col int) error
	// WriteGlyph draws custom character slot at the cursor and advances it.
	WriteGlyph(slot int) error
}

// Opts is the configuration for a Counter.
type Opts struct {
	// Number of digit positions (default: 8, must be ≤MaxDigits)
	Digits int

	// Cell of the leftmost digit
	Row int
	Col int

	// Time between frames of a rolling digit (default: 50ms)
	FrameInterval time.Duration

	// Reference digit shapes (default: glyph.HD44780)
	Glyphs *glyph.Table

	// Strict rejects values that do not fit instead of dropping their
	// high-order digits.
	Strict bool
}

// State is the phase of the counter state machine.
type State int

const (
	// Uninitialized means Poll has not completed yet.
	Uninitialized State = iota
	// Idle means every digit is at rest on the settled value.
	Idle
	// Animating means at least one digit may still be rolling.
	Animating
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Counter drives a row of rolling digits on a Display.
//
// A Counter is not safe for concurrent use; it is meant to be owned by the
// loop that calls Poll.
type Counter struct {
	d Display

	row, col int
	strict   bool
	limit    uint64 // 10^len(slots)

	slots  []*Slot
	unsent []bool // frame produced but not yet on the display

	state   State
	settled uint64
	target  uint64
	dir     glyph.Direction
}

// New creates a Counter drawing on d.
//
// opts can be nil to use defaults (8 digits at the top-left cell).
func New(d Display, opts *Opts) (*Counter, error) {
	if d == nil {
		return nil, errors.New("pushwheel: display is required")
	}
	if opts == nil {
		opts = &Opts{}
	}

	digits := opts.Digits
	if digits == 0 {
		digits = MaxDigits
	}
	if digits < 0 || digits > MaxDigits {
		return nil, fmt.Errorf("pushwheel: digits must be between 1 and %d", MaxDigits)
	}
	if opts.Row < 0 || opts.Col < 0 {
		return nil, errors.New("pushwheel: row and column must not be negative")
	}
	interval := opts.FrameInterval
	if interval == 0 {
		interval = DefaultFrameInterval
	}
	if interval < 0 {
		return nil, errors.New("pushwheel: frame interval must be positive")
	}
	table := opts.Glyphs
	if table == nil {
		table = &glyph.HD44780
	}

	c := &Counter{
		d:      d,
		row:    opts.Row,
		col:    opts.Col,
		strict: opts.Strict,
		limit:  1,
		slots:  make([]*Slot, digits),
		unsent: make([]bool, digits),
	}
	for i := range c.slots {
		c.slots[i] = NewSlot(table, interval)
		c.limit *= 10
	}
	return c, nil
}

// Poll advances the counter towards value and reports whether it is idle.
//
// The first call draws value without animating. After that, a value that
// differs from the settled one starts every differing digit rolling; the
// direction is down when value is smaller than the settled value and up
// otherwise, for all digits alike. Values passed while digits are rolling are
// not queued: the next comparison, made once every digit has settled, uses
// whatever value is passed at that time.
//
// Values wider than the counter lose their high-order digits, unless the
// counter is strict, in which case ErrOverflow is returned and nothing
// changes.
//
// Display errors are returned wrapped with the failing digit position. A
// frame that could not be pushed is pushed again by the next Poll, and the
// counter does not report idle before every digit on screen shows its final
// glyph.
func (c *Counter) Poll(now time.Time, value uint64) (bool, error) {
	switch c.state {
	case Uninitialized:
		return c.start(value)
	case Idle:
		return c.compare(now, value)
	default:
		return c.animate(now)
	}
}

// start seeds every slot from value and draws all of them once.
func (c *Counter) start(value uint64) (bool, error) {
	if c.strict && value >= c.limit {
		return false, ErrOverflow
	}
	for i, d := range c.digits(value) {
		c.slots[i].Seed(d)
	}
	for i := range c.slots {
		if err := c.push(i); err != nil {
			return false, err
		}
	}
	c.settled = value
	c.target = value
	c.state = Idle
	return true, nil
}

// compare starts an animation when value moved away from the settled value.
func (c *Counter) compare(now time.Time, value uint64) (bool, error) {
	if value == c.settled {
		return true, nil
	}
	if c.strict && value >= c.limit {
		return true, ErrOverflow
	}

	c.dir = glyph.Up
	if value < c.settled {
		c.dir = glyph.Down
	}
	c.target = value
	for i, d := range c.digits(value) {
		c.slots[i].Retarget(d, now)
	}
	c.state = Animating
	return false, nil
}

// animate ticks every slot, pushes the ones whose frame is not on the
// display yet and settles the counter once none is rolling or unsent.
//
// A frame whose push failed stays unsent and is pushed again on the next
// call, so the display catches up once it recovers.
func (c *Counter) animate(now time.Time) (bool, error) {
	for i, s := range c.slots {
		if s.Tick(now, c.dir) {
			c.unsent[i] = true
		}
	}
	for i := range c.slots {
		if !c.unsent[i] {
			continue
		}
		if err := c.push(i); err != nil {
			return false, err
		}
		c.unsent[i] = false
	}

	for _, s := range c.slots {
		if !s.Settled() {
			return false, nil
		}
	}
	c.settled = c.target
	c.state = Idle
	return true, nil
}

// push uploads the bitmap of slot i and draws it in its cell.
func (c *Counter) push(i int) error {
	if err := c.d.DefineGlyph(i, c.slots[i].Bitmap()); err != nil {
		return fmt.Errorf("pushwheel: digit %d: %w", i, err)
	}
	if err := c.d.SetCursor(c.row, c.col+i); err != nil {
		return fmt.Errorf("pushwheel: digit %d: %w", i, err)
	}
	if err := c.d.WriteGlyph(i); err != nil {
		return fmt.Errorf("pushwheel: digit %d: %w", i, err)
	}
	return nil
}

// digits splits value into one digit per slot, most significant first.
// Digits beyond the slot count are dropped.
func (c *Counter) digits(value uint64) []int {
	out := make([]int, len(c.slots))
	value %= c.limit
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = int(value % 10)
		value /= 10
	}
	return out
}

// State returns the current phase of the state machine.
func (c *Counter) State() State {
	return c.state
}

// Value returns the last value every digit settled on.
func (c *Counter) Value() uint64 {
	return c.settled
}

// Target returns the value the digits are rolling towards. It equals Value
// while the counter is idle.
func (c *Counter) Target() uint64 {
	return c.target
}

// Direction returns the direction of the current or last animation.
func (c *Counter) Direction() glyph.Direction {
	return c.dir
}

// Digits returns the number of digit positions.
func (c *Counter) Digits() int {
	return len(c.slots)
}

// Slot returns the animation state of digit position i, counting from the left.
func (c *Counter) Slot(i int) *Slot {
	return c.slots[i]
}

// String returns a string representation of the counter.
func (c *Counter) String() string {
	return fmt.Sprintf("pushwheel.Counter{%d digits, %s}", len(c.slots), c.state)
}
