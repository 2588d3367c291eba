// Package serlcd drives a serial character LCD that understands the Matrix
// Orbital command set, as found on most serial and USB LCD backpacks.
//
// Commands are a 0xFE prefix followed by a command byte and its arguments.
// Any other byte is printed at the cursor; bytes 0-7 print the custom
// characters.
//
// The device only needs an io.Writer, typically a go.bug.st/serial port:
//
//	port, err := serial.Open("/dev/ttyUSB0", &serial.Mode{BaudRate: 19200})
//	if err != nil {
//		log.Fatal(err)
//	}
//	dev, err := serlcd.New(port, nil)
package serlcd

import (
	"errors"
	"fmt"
	"io"

	"github.com/flavioheleno/pushwheel/glyph"
)

const (
	prefix = 0xFE

	cmdDefineChar   = 0x4E
	cmdSetCursor    = 0x47
	cmdClear        = 0x58
	cmdBacklightOn  = 0x42
	cmdBacklightOff = 0x46
)

// GlyphSlots is the number of custom characters the display holds.
const GlyphSlots = 8

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("serlcd: halted")

// Opts is the configuration for the serial LCD.
type Opts struct {
	// Display geometry in characters
	Rows int // Rows (default: 2, must be ≤4)
	Cols int // Columns (default: 16, must be ≤40)
}

// Dev is the device handle for the serial LCD.
type Dev struct {
	w          io.Writer
	rows, cols int
	halted     bool
}

// New creates a serial LCD writing commands to w.
//
// opts can be nil to use defaults (16x2 display). Zero fields of opts take
// the same defaults.
func New(w io.Writer, opts *Opts) (*Dev, error) {
	if w == nil {
		return nil, errors.New("serlcd: writer is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = 2
	}
	if cols == 0 {
		cols = 16
	}
	if rows < 0 || rows > 4 {
		return nil, errors.New("serlcd: rows must be between 1 and 4")
	}
	if cols < 0 || cols > 40 {
		return nil, errors.New("serlcd: columns must be between 1 and 40")
	}
	return &Dev{w: w, rows: rows, cols: cols}, nil
}

// write sends b in full.
func (d *Dev) write(b []byte) error {
	n, err := d.w.Write(b)
	if err != nil {
		return fmt.Errorf("serlcd: write: %w", err)
	}
	if n < len(b) {
		return fmt.Errorf("serlcd: wrote only %d of %d bytes: %w", n, len(b), io.ErrShortWrite)
	}
	return nil
}

// DefineGlyph uploads g as custom character slot (0-7).
func (d *Dev) DefineGlyph(slot int, g glyph.Glyph) error {
	if d.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("serlcd: glyph slot out of range")
	}
	m := g.Masked()
	return d.write(append([]byte{prefix, cmdDefineChar, byte(slot)}, m[:]...))
}

// SetCursor moves the write position to the given cell, counting from 0.
func (d *Dev) SetCursor(row, col int) error {
	if d.halted {
		return ErrHalted
	}
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return errors.New("serlcd: cursor out of range")
	}
	// The protocol counts columns and rows from 1.
	return d.write([]byte{prefix, cmdSetCursor, byte(col + 1), byte(row + 1)})
}

// WriteGlyph draws custom character slot at the cursor.
func (d *Dev) WriteGlyph(slot int) error {
	if d.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("serlcd: glyph slot out of range")
	}
	return d.write([]byte{byte(slot)})
}

// Print writes s at the cursor. Bytes equal to the command prefix are dropped.
func (d *Dev) Print(s string) error {
	if d.halted {
		return ErrHalted
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != prefix {
			b = append(b, s[i])
		}
	}
	return d.write(b)
}

// Clear blanks the display.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	return d.write([]byte{prefix, cmdClear})
}

// Backlight switches the backlight on or off.
func (d *Dev) Backlight(on bool) error {
	if d.halted {
		return ErrHalted
	}
	if on {
		// Zero minutes keeps it on until told otherwise.
		return d.write([]byte{prefix, cmdBacklightOn, 0})
	}
	return d.write([]byte{prefix, cmdBacklightOff})
}

// Halt clears the display and turns the backlight off.
func (d *Dev) Halt() error {
	err := d.write([]byte{prefix, cmdClear, prefix, cmdBacklightOff})
	d.halted = true
	return err
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("serlcd.Dev{%dx%d}", d.cols, d.rows)
}
