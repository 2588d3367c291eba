// Package hd44780 controls an HD44780 character LCD through a PCF8574 I²C
// backpack.
//
// The controller runs in 4-bit mode. Every byte is sent as two nibbles, each
// latched by pulsing the enable line through the expander.
//
// See the examples for how to use this package.
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"github.com/flavioheleno/pushwheel/glyph"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// PCF8574 pin assignment on the common backpacks.
const (
	bitRS        = 0x01 // Register select: 0 = command, 1 = data
	bitRW        = 0x02 // Read/write, kept low
	bitEN        = 0x04 // Enable strobe
	bitBacklight = 0x08 // Backlight transistor
)

// Instruction set.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x04
	cmdDisplayCtl  = 0x08
	cmdFunctionSet = 0x20
	cmdSetCGRAM    = 0x40
	cmdSetDDRAM    = 0x80

	entryIncrement = 0x02
	displayOn      = 0x04
	function2Lines = 0x08
)

// GlyphSlots is the number of custom characters the CGRAM holds.
const GlyphSlots = 8

// rowOffsets are the DDRAM addresses of the first cell of each row.
var rowOffsets = [4]int{0x00, 0x40, 0x14, 0x54}

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("hd44780: halted")

// Opts is the configuration for the HD44780 display.
type Opts struct {
	// Display geometry in characters
	Rows int // Rows (default: 2, must be ≤4)
	Cols int // Columns (default: 16, must be ≤40)

	// I²C address of the PCF8574 (default: 0x27)
	Addr uint16
}

// Dev is the device handle for the HD44780 display.
type Dev struct {
	// Communication
	c conn.Conn

	// Display geometry
	rows, cols int

	// State
	backlight byte
	halted    bool
}

// NewI2C creates a new HD44780 device behind a PCF8574 on bus b.
//
// opts can be nil to use defaults (16x2 display at address 0x27). Zero
// fields of opts take the same defaults.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	rows, cols, addr := opts.Rows, opts.Cols, opts.Addr
	if rows == 0 {
		rows = 2
	}
	if cols == 0 {
		cols = 16
	}
	if addr == 0 {
		addr = 0x27
	}
	if rows < 0 || rows > len(rowOffsets) {
		return nil, errors.New("hd44780: rows must be between 1 and 4")
	}
	if cols < 0 || cols > 40 {
		return nil, errors.New("hd44780: columns must be between 1 and 40")
	}

	d := &Dev{
		c:         &i2c.Dev{Bus: b, Addr: addr},
		rows:      rows,
		cols:      cols,
		backlight: bitBacklight,
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init runs the 4-bit initialisation by instruction sequence.
func (d *Dev) init() error {
	// Wait for Vcc to settle after power on
	time.Sleep(50 * time.Millisecond)

	// Force 8-bit mode three times, whatever state the controller was left in,
	// then switch to 4-bit mode.
	steps := []struct {
		nibble byte
		wait   time.Duration
	}{
		{0x03, 5 * time.Millisecond},
		{0x03, 5 * time.Millisecond},
		{0x03, 150 * time.Microsecond},
		{0x02, 150 * time.Microsecond},
	}
	for _, s := range steps {
		if err := d.c.Tx(d.strobe(s.nibble<<4, 0), nil); err != nil {
			return fmt.Errorf("hd44780: init: %w", err)
		}
		time.Sleep(s.wait)
	}

	function := byte(cmdFunctionSet)
	if d.rows > 1 {
		function |= function2Lines
	}
	cmds := []byte{
		function,
		cmdDisplayCtl | displayOn, // Display on, cursor and blink off
		cmdEntryMode | entryIncrement,
	}
	for _, cmd := range cmds {
		if err := d.sendCommand(cmd); err != nil {
			return fmt.Errorf("hd44780: init: %w", err)
		}
	}
	return d.clear()
}

// strobe returns the expander writes that latch the high nibble of v.
func (d *Dev) strobe(v, mode byte) []byte {
	b := v&0xF0 | mode | d.backlight
	return []byte{b | bitEN, b}
}

// send writes one byte as two nibbles in a single bus transaction.
func (d *Dev) send(v, mode byte) error {
	w := append(d.strobe(v, mode), d.strobe(v<<4, mode)...)
	return d.c.Tx(w, nil)
}

// sendCommand sends an instruction byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.send(cmd, 0)
}

// sendData sends data bytes to the current CGRAM or DDRAM address.
func (d *Dev) sendData(data []byte) error {
	for _, b := range data {
		if err := d.send(b, bitRS); err != nil {
			return err
		}
	}
	return nil
}

// clear blanks the display and homes the cursor.
func (d *Dev) clear() error {
	if err := d.sendCommand(cmdClear); err != nil {
		return err
	}
	// Clear is the one slow instruction: 1.52ms.
	time.Sleep(2 * time.Millisecond)
	return nil
}

// DefineGlyph uploads g as custom character slot (0-7).
//
// Cells already showing the slot change immediately. The address counter is
// left in CGRAM, so call SetCursor before writing characters.
func (d *Dev) DefineGlyph(slot int, g glyph.Glyph) error {
	if d.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("hd44780: glyph slot out of range")
	}
	if err := d.sendCommand(cmdSetCGRAM | byte(slot<<3)); err != nil {
		return err
	}
	m := g.Masked()
	return d.sendData(m[:])
}

// SetCursor moves the write position to the given cell.
func (d *Dev) SetCursor(row, col int) error {
	if d.halted {
		return ErrHalted
	}
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return errors.New("hd44780: cursor out of range")
	}
	return d.sendCommand(cmdSetDDRAM | byte(rowOffsets[row]+col))
}

// WriteGlyph draws custom character slot at the cursor.
func (d *Dev) WriteGlyph(slot int) error {
	if d.halted {
		return ErrHalted
	}
	if slot < 0 || slot >= GlyphSlots {
		return errors.New("hd44780: glyph slot out of range")
	}
	return d.sendData([]byte{byte(slot)})
}

// Print writes s at the cursor using the character ROM.
func (d *Dev) Print(s string) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendData([]byte(s))
}

// Clear blanks the display and moves the cursor to the top-left cell.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	return d.clear()
}

// Backlight switches the backlight on or off.
func (d *Dev) Backlight(on bool) error {
	if d.halted {
		return ErrHalted
	}
	d.backlight = 0
	if on {
		d.backlight = bitBacklight
	}
	// The expander latches the backlight bit with any write.
	return d.c.Tx([]byte{d.backlight}, nil)
}

// Halt turns the display and backlight off.
// After calling Halt, the device will not respond to further commands
// until it is re-initialized.
func (d *Dev) Halt() error {
	d.backlight = 0
	err := d.sendCommand(cmdDisplayCtl)
	d.halted = true
	return err
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("hd44780.Dev{%dx%d}", d.cols, d.rows)
}
