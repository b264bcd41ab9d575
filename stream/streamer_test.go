package stream

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Helitronix/laser-clock/dac"
	"github.com/Helitronix/laser-clock/render"
)

// fakeDAC records every frame written to it and reports readiness from a
// scripted sequence (empty script means always ready).
type fakeDAC struct {
	frames      [][]render.Point
	rates       []int
	statusCalls int
	statusRuns  []bool
}

func (f *fakeDAC) Init() error      { return nil }
func (f *fakeDAC) Close() error     { return nil }
func (f *fakeDAC) DeviceCount() int { return 1 }

func (f *fakeDAC) Status(device int) (bool, error) {
	f.statusCalls++
	if len(f.statusRuns) == 0 {
		return true, nil
	}
	ready := f.statusRuns[0]
	f.statusRuns = f.statusRuns[1:]
	return ready, nil
}

func (f *fakeDAC) WriteFrame(device, pointRate int, flags dac.WriteFlag, points []render.Point) error {
	f.frames = append(f.frames, append([]render.Point(nil), points...))
	f.rates = append(f.rates, pointRate)
	return nil
}

func testStreamer(d dac.DAC, opts StreamerOptions) *Streamer {
	canvas := render.NewCanvas(render.CanvasOptions{
		Divider:     50.0,
		Dwell:       10,
		HiddenDwell: 15,
		Warnf:       func(string, ...interface{}) {},
	})
	face := render.Face{OriginY: 2000, Size: 250, Color: render.ColorRed, Separator: render.SquareSeparator}
	return NewStreamer(d, canvas, face, opts)
}

// steppingClock advances one second per reading and cancels after the given
// number of readings.
func steppingClock(cancel context.CancelFunc, cancelAfter int) func() time.Time {
	base := time.Date(2017, time.January, 28, 3, 5, 9, 0, time.UTC)
	calls := 0
	return func() time.Time {
		t := base.Add(time.Duration(calls) * time.Second)
		calls++
		if calls >= cancelAfter {
			cancel()
		}
		return t
	}
}

func TestRunRegeneratesOncePerSecond(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	regenerations := 0
	d := &fakeDAC{}
	opts := NewDefaultStreamerOptions()
	opts.PollInterval = 0
	opts.Now = steppingClock(cancel, 10)
	opts.Logf = func(format string, args ...interface{}) { regenerations++ }

	err := testStreamer(d, opts).Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// each second gets exactly one regeneration and, with the clock
	// advancing on every read, exactly one write before the second flips
	if regenerations != 5 {
		t.Errorf("expected 5 regenerations, got %d", regenerations)
	}
	if len(d.frames) != 5 {
		t.Errorf("expected 5 writes, got %d", len(d.frames))
	}

	for i, frame := range d.frames {
		if len(frame) == 0 {
			t.Fatalf("frame %d is empty", i)
		}
	}

	// the seconds digit differs between consecutive frames
	for i := 1; i < len(d.frames); i++ {
		if reflect.DeepEqual(d.frames[i-1], d.frames[i]) {
			t.Errorf("frames %d and %d are identical across a second boundary", i-1, i)
		}
	}
}

func TestRunReplaysFrameWithinSecond(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &fakeDAC{}
	opts := NewDefaultStreamerOptions()
	opts.PollInterval = 0
	opts.Logf = func(string, ...interface{}) {}

	// hold the clock inside one second for four readings, then tick over
	// and cancel
	base := time.Date(2017, time.January, 28, 12, 0, 0, 0, time.UTC)
	calls := 0
	opts.Now = func() time.Time {
		calls++
		if calls <= 4 {
			return base
		}
		cancel()
		return base.Add(time.Second)
	}

	err := testStreamer(d, opts).Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// readings: 1 regenerate + 3 in-second re-reads -> 4 writes of the
	// identical frame
	if len(d.frames) != 4 {
		t.Fatalf("expected 4 writes, got %d", len(d.frames))
	}
	for i := 1; i < len(d.frames); i++ {
		if !reflect.DeepEqual(d.frames[0], d.frames[i]) {
			t.Errorf("replayed frame %d differs from the regenerated frame", i)
		}
	}
}

func TestRunWaitsForDeviceReadiness(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &fakeDAC{statusRuns: []bool{false, false, false, true}}
	opts := NewDefaultStreamerOptions()
	opts.PollInterval = 0
	opts.Now = steppingClock(cancel, 2)
	opts.Logf = func(string, ...interface{}) {}

	if err := testStreamer(d, opts).Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if d.statusCalls < 4 {
		t.Errorf("expected at least 4 status polls, got %d", d.statusCalls)
	}
	if len(d.frames) != 1 {
		t.Errorf("expected exactly 1 write after the device became ready, got %d", len(d.frames))
	}
}

func TestRunHonorsCancellationWhileBlocked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// device is never ready; cancellation is the only way out
	neverReady := &stuckDAC{}
	opts := NewDefaultStreamerOptions()
	opts.PollInterval = 0
	opts.Logf = func(string, ...interface{}) {}

	time.AfterFunc(10*time.Millisecond, cancel)

	if err := testStreamer(neverReady, opts).Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type stuckDAC struct{ fakeDAC }

func (s *stuckDAC) Status(device int) (bool, error) { return false, nil }

func TestRunUsesConfiguredPointRate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &fakeDAC{}
	opts := NewDefaultStreamerOptions()
	opts.PointRate = 12345
	opts.PollInterval = 0
	opts.Now = steppingClock(cancel, 4)
	opts.Logf = func(string, ...interface{}) {}

	if err := testStreamer(d, opts).Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	for i, rate := range d.rates {
		if rate != 12345 {
			t.Errorf("write %d used point rate %d", i, rate)
		}
	}
}
