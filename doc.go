// Package pushwheel animates a multi-digit counter on a character display so
// that changing digits roll like the wheels of a mechanical odometer.
//
// Each digit position owns one of the eight custom glyph slots of an HD44780
// style controller. When a digit changes, the counter redefines that slot
// frame by frame, sliding the old digit out and the new one in.
//
// # Polling
//
// The Counter is poll driven: call Poll repeatedly from your own loop with the
// current time and the value to show. It never blocks or sleeps. Poll reports
// true once the display shows the value it was given.
//
//	c, _ := pushwheel.New(dev, &pushwheel.Opts{Digits: 6})
//	for {
//		now := time.Now()
//		c.Poll(now, readValue())
//		time.Sleep(10 * time.Millisecond)
//	}
//
// Values that arrive while digits are rolling are not queued. The roll in
// progress finishes first and the counter then moves straight to whatever
// value is current at that point.
//
// # Roll Direction
//
// All digits roll the same way. If the new value is smaller than the one on
// screen they roll down, otherwise up. A digit that wraps from 9 to 0 while
// counting up therefore keeps rolling up.
//
// # Overflow
//
// A counter with N digits shows the value modulo 10^N. Set Opts.Strict to have
// Poll return ErrOverflow instead and leave the display unchanged.
//
// # Displays
//
// Anything implementing Display can be driven. This module ships three:
//
//	hd44780  HD44780 behind a PCF8574 I2C backpack
//	serlcd   Matrix Orbital compatible serial modules
//	matrix   character cells rendered on any periph.io display.Drawer
//
// The glyph package holds the digit bitmaps and the frame blending used for
// the roll, and keypad reads the analog buttons of an LCD keypad shield.
package pushwheel
