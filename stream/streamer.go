package stream

import (
	"context"
	"log"
	"time"

	"github.com/Helitronix/laser-clock/dac"
	"github.com/Helitronix/laser-clock/render"
)

// This module exposes the Streamer, the control loop that keeps the clock
// face on the projector. Geometry is regenerated once per distinct second
// and the identical frame is replayed at device refresh rate in between;
// regenerating on every write would waste cycles and risks visible jitter.

type StreamerOptions struct {
	Device    int
	PointRate int
	Flags     dac.WriteFlag

	// PollInterval is slept between device status polls. Zero spins,
	// which bounds latency to device throughput at the cost of CPU.
	PollInterval time.Duration

	// Now overrides the wall clock, for tests.
	Now func() time.Time

	// Logf receives one status line per regeneration. Defaults to the
	// standard library logger.
	Logf func(format string, args ...interface{})
}

func NewDefaultStreamerOptions() StreamerOptions {
	return StreamerOptions{
		PointRate:    30000,
		PollInterval: time.Millisecond,
	}
}

func NewStreamer(device dac.DAC, canvas *render.Canvas, face render.Face, opts StreamerOptions) *Streamer {
	if opts.PointRate == 0 {
		opts.PointRate = NewDefaultStreamerOptions().PointRate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}

	return &Streamer{
		dac:    device,
		canvas: canvas,
		face:   face,
		opts:   opts,
	}
}

type Streamer struct {
	dac    dac.DAC
	canvas *render.Canvas
	face   render.Face
	opts   StreamerOptions
}

// Run: regenerate the clock face once per distinct second value and replay
// the frame to the device until the second changes, polling readiness before
// each write. Blocks until ctx is cancelled or the device fails. At least
// one write is issued per composed frame, even if the clock has already
// ticked over by the time the frame is built.
func (s *Streamer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := s.opts.Now()
		s.canvas.Clear()
		s.face.Draw(s.canvas, now.Hour(), now.Minute(), now.Second())
		s.opts.Logf("now: %s", now.Format("2006-01-02 15:04:05"))

		second := now.Second()
		for cur := now; cur.Second() == second; cur = s.opts.Now() {
			if err := s.waitReady(ctx); err != nil {
				return err
			}
			if err := s.dac.WriteFrame(s.opts.Device, s.opts.PointRate, s.opts.Flags, s.canvas.Points()); err != nil {
				return err
			}
		}
	}
}

// waitReady blocks until the device reports ready. Unreadiness is never an
// error and there is no upper bound on the wait; only cancellation or a
// device failure gets out.
func (s *Streamer) waitReady(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ready, err := s.dac.Status(s.opts.Device)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}

		if s.opts.PollInterval > 0 {
			time.Sleep(s.opts.PollInterval)
		}
	}
}
