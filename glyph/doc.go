// Package glyph provides the 5x8 character-cell bitmaps used by the pushwheel
// counter and the row-shift blend that makes a digit look like it rolls.
//
// A Glyph uses the HD44780 CGRAM layout: eight rows, one byte per row, with
// the five low bits holding the pixels. Bit 4 is the leftmost column.
//
// Memory layout of the digit '1':
//
//	Row  Bits    Pixels
//	0    0b00100 ..#..
//	1    0b01100 .##..
//	2    0b00100 ..#..
//	3    0b00100 ..#..
//	4    0b00100 ..#..
//	5    0b00100 ..#..
//	6    0b01110 .###.
//	7    0b00000 .....
//
// This package provides:
//
// - Glyph: a bitmap that also implements image.Image
// - Table: a digit to glyph lookup, with HD44780 holding the controller ROM shapes
// - Roll: the blend between two glyphs at a given animation step
//
// Example usage:
//
//	prev := glyph.HD44780.For(4)
//	cur := glyph.HD44780.For(5)
//	for step := 0; step <= glyph.Rows; step++ {
//		frame := glyph.Roll(prev, cur, step, glyph.Up)
//		// upload frame as a custom character
//	}
package glyph
