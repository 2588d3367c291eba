// Package keypad reads the five buttons of an analog LCD keypad shield.
//
// The buttons share one ADC input through a resistor ladder, so each button
// pulls the input to a different voltage. A reading is classified by the
// first threshold it falls below; anything above the last threshold means no
// button is pressed.
package keypad

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// Key is a button of the keypad.
type Key int

const (
	None Key = iota
	Right
	Up
	Down
	Left
	Select
)

func (k Key) String() string {
	switch k {
	case None:
		return "none"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Select:
		return "select"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// Thresholds are the upper voltage bounds of each button, in ascending order.
type Thresholds struct {
	Right  physic.ElectricPotential
	Up     physic.ElectricPotential
	Down   physic.ElectricPotential
	Left   physic.ElectricPotential
	Select physic.ElectricPotential
}

// DefaultThresholds match the common 16x2 LCD keypad shield powered at 5V.
var DefaultThresholds = Thresholds{
	Right:  244 * physic.MilliVolt,
	Up:     1222 * physic.MilliVolt,
	Down:   2199 * physic.MilliVolt,
	Left:   3177 * physic.MilliVolt,
	Select: 4154 * physic.MilliVolt,
}

// DefaultDebounce is the minimum time between two accepted key presses.
const DefaultDebounce = 200 * time.Millisecond

// valid reports whether the thresholds are strictly ascending and positive.
func (t Thresholds) valid() bool {
	return 0 < t.Right && t.Right < t.Up && t.Up < t.Down && t.Down < t.Left && t.Left < t.Select
}

// Classify returns the button pulling the input to v.
func Classify(v physic.ElectricPotential, t Thresholds) Key {
	switch {
	case v < t.Right:
		return Right
	case v < t.Up:
		return Up
	case v < t.Down:
		return Down
	case v < t.Left:
		return Left
	case v < t.Select:
		return Select
	default:
		return None
	}
}

// ADC is an analog input. analog.PinADC implements it.
type ADC interface {
	Read() (analog.Sample, error)
}

// Opts is the configuration for a Keypad.
type Opts struct {
	// Button voltage bounds (default: DefaultThresholds)
	Thresholds Thresholds

	// Minimum time between accepted presses (default: 200ms)
	Debounce time.Duration
}

// Keypad turns ADC readings into debounced key presses.
type Keypad struct {
	adc        ADC
	thresholds Thresholds
	debounce   time.Duration

	lastKey time.Time
}

// New creates a Keypad sampling adc.
//
// opts can be nil to use defaults.
func New(adc ADC, opts *Opts) (*Keypad, error) {
	if adc == nil {
		return nil, errors.New("keypad: adc is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	t := opts.Thresholds
	if t == (Thresholds{}) {
		t = DefaultThresholds
	}
	if !t.valid() {
		return nil, errors.New("keypad: thresholds must be positive and ascending")
	}
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	if debounce < 0 {
		return nil, errors.New("keypad: debounce must be positive")
	}
	return &Keypad{adc: adc, thresholds: t, debounce: debounce}, nil
}

// ReadKey samples the input and returns the pressed button.
//
// A press is only reported if at least the debounce interval has passed since
// the previous reported press, so a held button repeats at that rate. In
// every other case ReadKey returns None.
func (k *Keypad) ReadKey(now time.Time) (Key, error) {
	s, err := k.adc.Read()
	if err != nil {
		return None, fmt.Errorf("keypad: %w", err)
	}
	key := Classify(s.V, k.thresholds)
	if key == None {
		return None, nil
	}
	if !k.lastKey.IsZero() && now.Sub(k.lastKey) < k.debounce {
		return None, nil
	}
	k.lastKey = now
	return key, nil
}
