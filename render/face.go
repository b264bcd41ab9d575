package render

type Separator int

const (
	SquareSeparator Separator = iota + 1
	CircleSeparator

	NilSeparator
)

func ParseSeparator(input string) (Separator, error) {
	separator, ok := map[string]Separator{
		"square": SquareSeparator,
		"circle": CircleSeparator,
	}[input]

	if !ok {
		return NilSeparator, ErrInvalidSeparator{input}
	}
	return separator, nil
}

// Face lays a six digit HH:MM:SS reading out on the device plane. The origin
// is the top left corner of the first digit cell; digits advance two sizes
// apart so each has a one-size gutter, with colon style separator pairs
// between the hour/minute and minute/second groups.
type Face struct {
	OriginX, OriginY int
	Size             int
	Color            Color
	Separator        Separator
}

// Draw composes the full clock face into the canvas. All ten shapes share
// one continuous pen trajectory, so the travel between digits is itself an
// interpolated blanked stroke.
func (f Face) Draw(c *Canvas, hour, minute, second int) {
	s := f.Size

	c.Digit(hour/10, f.OriginX, f.OriginY, f.Color, s)
	c.Digit(hour%10, f.OriginX+2*s, f.OriginY, f.Color, s)

	c.Digit(minute/10, f.OriginX+4*s, f.OriginY, f.Color, s)
	c.Digit(minute%10, f.OriginX+6*s, f.OriginY, f.Color, s)

	c.Digit(second/10, f.OriginX+8*s, f.OriginY, f.Color, s)
	c.Digit(second%10, f.OriginX+10*s, f.OriginY, f.Color, s)

	for _, sx := range []int{f.OriginX + int(3.5*float64(s)), f.OriginX + int(7.5*float64(s))} {
		f.drawSeparator(c, sx, f.OriginY-s/2)
		f.drawSeparator(c, sx, f.OriginY-s/2-s)
	}
}

func (f Face) drawSeparator(c *Canvas, x, y int) {
	switch f.Separator {
	case CircleSeparator:
		c.Circle(x, y, f.Color, float64(f.Size)/20.0, 30.0)
	default:
		c.Square(x, y, f.Color, f.Size/10)
	}
}
