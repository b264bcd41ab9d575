package render

import "math"

// The digit shapes are an authored stroke table, not generated geometry.
// Each digit is an ordered program of pen moves over a cell two sizes tall
// and one size wide, mimicking a seven segment display split by the middle
// horizontal. Offsets are in units of the size parameter, dy negative going
// down the cell from a top-of-cell origin. A blank move positions the pen
// without drawing; some digits blank mid-program to jump across a gap.

type stroke struct {
	dx, dy int
	blank  bool
}

var digitStrokes = [10][]stroke{
	0: {{0, 0, true}, {1, 0, false}, {1, -2, false}, {0, -2, false}, {0, 0, false}},

	// the repeated blank move adds a dwell that sharpens the digit
	1: {{1, 0, true}, {1, 0, true}, {1, -2, false}},

	2: {{0, 0, true}, {1, 0, false}, {1, -1, false}, {0, -1, false}, {0, -2, false}, {1, -2, false}},
	3: {{0, 0, true}, {1, 0, false}, {1, -2, false}, {0, -2, false}, {0, -1, true}, {1, -1, false}},
	4: {{0, 0, true}, {0, -1, false}, {1, -1, false}, {1, 0, true}, {1, -2, false}},
	5: {{1, 0, true}, {0, 0, false}, {0, -1, false}, {1, -1, false}, {1, -2, false}, {0, -2, false}},
	6: {{1, 0, true}, {0, 0, false}, {0, -2, false}, {1, -2, false}, {1, -1, false}, {0, -1, false}},
	7: {{0, 0, true}, {1, 0, false}, {1, -2, false}},
	8: {{0, 0, true}, {1, 0, false}, {1, -2, false}, {0, -2, false}, {0, 0, false}, {0, -1, true}, {1, -1, false}},
	9: {{1, -2, true}, {1, 0, false}, {0, 0, false}, {0, -1, false}, {1, -1, false}},
}

// Digit draws digit n with its cell origin at (x, y). Values outside 0-9 draw
// nothing.
func (c *Canvas) Digit(n, x, y int, col Color, size int) {
	if n < 0 || n > 9 {
		return
	}

	for _, s := range digitStrokes[n] {
		sc := col
		if s.blank {
			sc = ColorBlank
		}
		c.LineTo(x+s.dx*size, y+s.dy*size, sc)
	}
}

// Square draws a closed square centered at (x, y) with the given side length.
func (c *Canvas) Square(x, y int, col Color, size int) {
	offset := size / 2

	c.LineTo(x-offset, y-offset, ColorBlank)
	c.LineTo(x-offset+size, y-offset, col)
	c.LineTo(x-offset+size, y-offset+size, col)
	c.LineTo(x-offset, y-offset+size, col)
	c.LineTo(x-offset, y-offset, col)
}

// Circle approximates a circle centered at (x, y) by sampling the
// circumference every stepSize degrees. Sampling starts half a step before
// zero and runs half a step past a full turn so the loop visually closes
// without a gap.
func (c *Canvas) Circle(x, y int, col Color, radius, stepSize float64) {
	c.LineTo(x+int(radius), y, ColorBlank)

	for theta := 0.0 - (0.5 * stepSize); theta < 360.0+(0.5*stepSize); theta += stepSize {
		xf := radius * math.Cos(theta*math.Pi/180.0)
		yf := radius * math.Sin(theta*math.Pi/180.0)
		c.LineTo(int(xf)+x, int(yf)+y, col)
	}
}
