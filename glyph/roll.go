package glyph

// Direction is the way the wheel turns while rolling between two digits.
type Direction int

const (
	// Up scrolls the outgoing digit off the top of the cell.
	Up Direction = iota
	// Down scrolls the outgoing digit off the bottom of the cell.
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Roll returns the frame shown step rows into the transition from prev to cur.
//
// Step 0 is prev and step Rows is cur. In between, rolling Up shows the tail
// of prev stacked on the head of cur; rolling Down shows the tail of cur
// stacked on the head of prev. Steps outside 0..Rows are clamped.
//
// Roll(a, b, s, Down) == Roll(b, a, Rows-s, Up).
func Roll(prev, cur Glyph, step int, dir Direction) Glyph {
	step = max(0, min(step, Rows))

	var out Glyph
	if dir == Down {
		for i := 0; i < step; i++ {
			out[i] = cur[i+Rows-step]
		}
		for i := step; i < Rows; i++ {
			out[i] = prev[i-step]
		}
		return out
	}

	for i := 0; i < Rows-step; i++ {
		out[i] = prev[i+step]
	}
	for i := Rows - step; i < Rows; i++ {
		out[i] = cur[i-(Rows-step)]
	}
	return out
}
