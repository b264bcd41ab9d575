package render

import (
	"log"
	"math"
)

// This module exposes the Canvas, the render context that owns the per-frame
// point buffer and the interpolator pen state. A Canvas is built once at
// startup, cleared at the top of every frame and filled by the glyph and
// clock-face drawing routines before being handed to a DAC. It is not safe
// for concurrent use; the streaming loop is the only producer and consumer.

// MaxCoord is the largest coordinate the galvo DAC accepts on either axis.
// The device coordinate space is 12 bit unsigned.
const MaxCoord = 4095

// Point is a single displayable laser point in device format: 12 bit
// position, expanded RGB and an intensity byte.
type Point struct {
	X, Y       uint16
	R, G, B, I uint8
}

type CanvasOptions struct {
	// Capacity bounds the number of points per frame. Appends past it are
	// dropped, which truncates the frame rather than slowing the scan.
	Capacity int

	// Divider is the maximum length of one interpolated sub-stroke.
	// Vectors are divided into segments so that a constant brightness is
	// achieved across all vectors (uniform drawing time per unit length)
	// and non-linearities in the galvo response are minimized.
	Divider float64

	// Dwell and HiddenDwell are the number of repeated points held at a
	// stroke endpoint, for visible and blanked moves respectively. The
	// repeats let the mirror settle before the next direction change.
	Dwell       int
	HiddenDwell int

	// Warnf receives clipping diagnostics. Defaults to the standard
	// library logger.
	Warnf func(format string, args ...interface{})
}

func NewDefaultCanvasOptions() CanvasOptions {
	return CanvasOptions{
		Capacity: 10000,
		Divider:  50.0,

		// experimental values, see the package notes on dwell
		Dwell:       10,
		HiddenDwell: 15,
	}
}

func NewCanvas(opts CanvasOptions) *Canvas {
	if opts.Capacity == 0 {
		opts.Capacity = NewDefaultCanvasOptions().Capacity
	}
	if opts.Divider == 0 {
		opts.Divider = NewDefaultCanvasOptions().Divider
	}
	if opts.Warnf == nil {
		opts.Warnf = log.Printf
	}

	return &Canvas{
		opts:   opts,
		points: make([]Point, 0, opts.Capacity),
	}
}

type Canvas struct {
	opts   CanvasOptions
	points []Point

	// pen position carried between moves and between frames. The first
	// move of a new frame travels from wherever the previous frame left
	// the pen, which is fine because that travel is drawn blanked.
	penX, penY int
}

// Clear: reset the point buffer for a new frame. Pen state is deliberately
// left alone.
func (c *Canvas) Clear() {
	c.points = c.points[:0]
}

// Points returns the current frame contents. The slice is only valid until
// the next Clear.
func (c *Canvas) Points() []Point {
	return c.points
}

// Pen returns the current pen position.
func (c *Canvas) Pen() (x, y int) {
	return c.penX, c.penY
}

// Append: clamp the coordinates into device range and store one point,
// returning its buffer index. Appending past capacity is a no-op reporting
// ok=false; callers tolerate the truncation. A clamped coordinate emits one
// warning per call and rendering continues with the clamped value.
func (c *Canvas) Append(x, y int, col Color) (int, bool) {
	if len(c.points) >= c.opts.Capacity {
		return 0, false
	}

	clipped := false
	if x > MaxCoord {
		x = MaxCoord
		clipped = true
	}
	if x < 0 {
		x = 0
		clipped = true
	}
	if y > MaxCoord {
		y = MaxCoord
		clipped = true
	}
	if y < 0 {
		y = 0
		clipped = true
	}
	if clipped {
		c.opts.Warnf("clipping at (%d, %d): reduce size and/or adjust the origin", x, y)
	}

	r, g, b := col.RGB()
	c.points = append(c.points, Point{
		X: uint16(x),
		Y: uint16(y),
		R: r,
		G: g,
		B: b,
		I: 0xFF,
	})

	return len(c.points) - 1, true
}

// LineTo: move the pen to (x, y), interpolating evenly spaced points along
// the way. The stroke is split into ceil(distance/Divider) segments (minimum
// one) so that drawing time stays proportional to length. Visible colors emit
// one point per segment step, guaranteeing a point at the destination; blank
// moves emit no intermediate points at all. In both cases the destination is
// held for the configured dwell count and the pen state is updated.
func (c *Canvas) LineTo(x, y int, col Color) {
	dx := float64(x - c.penX)
	dy := float64(y - c.penY)
	length := math.Sqrt(dx*dx + dy*dy)

	segments := int(math.Ceil(length / c.opts.Divider))
	if segments < 1 {
		segments = 1
	}

	if col != ColorBlank {
		for i := 1; i <= segments; i++ {
			c.Append(c.penX+int(dx/float64(segments)*float64(i)),
				c.penY+int(dy/float64(segments)*float64(i)), col)
		}
	}

	dwell := c.opts.Dwell
	if col == ColorBlank {
		dwell = c.opts.HiddenDwell
	}
	for i := 0; i < dwell; i++ {
		c.Append(x, y, col)
	}

	c.penX = x
	c.penY = y
}
