package dac

import (
	"time"

	"github.com/Helitronix/laser-clock/render"
)

// This module exposes the primary interface and types for the dac package.
// A DAC is the capability surface of a galvo laser digital-to-analog
// converter: open the attached devices, query per-device readiness, and
// write a frame of points at a given point rate. The surface mirrors the
// Helios DAC driver, so a backend wrapping the real hardware slots in
// beside the simulators. All errors are found in the errors.go module.

// WriteFlag carries per-frame output flags, matching the Helios wire flags.
type WriteFlag uint8

const (
	// WriteFlagStartImmediately starts output now instead of waiting for
	// the currently playing frame to finish.
	WriteFlagStartImmediately WriteFlag = 1 << iota

	// WriteFlagSingleShot plays the frame once instead of repeating it
	// until another frame is written.
	WriteFlagSingleShot
)

// DAC represents an attached set of point-output devices. Implementations
// are written against a single sequential caller; they may run internal
// goroutines (input polling, window loops) but WriteFrame and Status are
// never called concurrently.
type DAC interface {
	Init() error
	Close() error

	// DeviceCount reports the number of devices opened by Init. Zero
	// after a successful Init means there is nothing to render to and
	// callers are expected to fail fast.
	DeviceCount() int

	// Status reports whether the device is ready to accept a new frame.
	// A busy device is not an error; callers poll until ready.
	Status(device int) (bool, error)

	// WriteFrame outputs a frame of points at pointRate points per
	// second. The device replays the frame until the next write unless
	// flags say otherwise.
	WriteFrame(device, pointRate int, flags WriteFlag, points []render.Point) error
}

type Backend string

const (
	TerminalBackend Backend = "terminal"
	WindowBackend   Backend = "window"

	NilBackend Backend = ""
)

func ParseBackend(input string) (Backend, error) {
	backend, ok := map[string]Backend{
		"terminal": TerminalBackend,
		"window":   WindowBackend,
	}[input]

	if !ok {
		return NilBackend, ErrInvalidBackend{input}
	}

	return backend, nil
}

// playTime: how long a frame of n points occupies the output at the given
// point rate. The simulators report busy for this long after a write, so
// they exhibit the real DAC's throughput-bound cadence.
func playTime(n, pointRate int) time.Duration {
	if pointRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(pointRate) * float64(time.Second))
}
