package dac

import (
	"testing"
	"time"

	"github.com/Helitronix/laser-clock/render"
	"github.com/gdamore/tcell"
)

func newSimulationDAC(t *testing.T) (*TerminalDAC, tcell.SimulationScreen, *time.Time) {
	t.Helper()

	sim := tcell.NewSimulationScreen("")
	current := time.Unix(0, 0)

	opts := NewDefaultTerminalDACOptions()
	opts.Screen = sim
	opts.Now = func() time.Time { return current }

	d := NewTerminalDAC(opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })

	return d, sim, &current
}

func TestTerminalDACLifecycle(t *testing.T) {
	d, _, _ := newSimulationDAC(t)

	if d.DeviceCount() != 1 {
		t.Errorf("expected 1 device, got %d", d.DeviceCount())
	}

	if ready, err := d.Status(0); err != nil || !ready {
		t.Errorf("expected a fresh device to be ready, got (%v, %v)", ready, err)
	}

	if _, err := d.Status(1); err != (ErrInvalidDevice{1, 1}) {
		t.Errorf("expected ErrInvalidDevice, got %v", err)
	}
	if err := d.WriteFrame(1, 30000, 0, nil); err != (ErrInvalidDevice{1, 1}) {
		t.Errorf("expected ErrInvalidDevice, got %v", err)
	}
}

func TestTerminalDACUninitialized(t *testing.T) {
	d := NewTerminalDAC(NewDefaultTerminalDACOptions())

	if d.DeviceCount() != 0 {
		t.Error("expected 0 devices before Init")
	}
	if err := d.WriteFrame(0, 30000, 0, nil); err != (ErrNotInitialized{}) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := d.Status(0); err != (ErrNotInitialized{}) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestTerminalDACDrawsFrame(t *testing.T) {
	d, sim, _ := newSimulationDAC(t)

	frame := []render.Point{
		{X: 2048, Y: 2048, R: 255, I: 0xFF},
		{X: 0, Y: render.MaxCoord, G: 255, I: 0xFF},

		// blanked travel must not reach the screen
		{X: 100, Y: 100, I: 0xFF},
	}
	if err := d.WriteFrame(0, 30000, 0, frame); err != nil {
		t.Fatal(err)
	}

	cells, width, height := sim.GetContents()

	plotted := 0
	for i, cell := range cells {
		if len(cell.Runes) > 0 && cell.Runes[0] == '█' {
			plotted++

			// the blanked point maps near the bottom left; nothing
			// may be plotted there
			col, row := i%width, i/width
			if col < width/8 && row > (height-d.opts.LabelHeight)*7/8 && row < height-d.opts.LabelHeight {
				t.Errorf("blanked point plotted at (%d, %d)", col, row)
			}
		}
	}

	if plotted != 2 {
		t.Errorf("expected 2 plotted cells, got %d", plotted)
	}
}

func TestTerminalDACBusyFloor(t *testing.T) {
	d, _, current := newSimulationDAC(t)

	// 300 points at 30000 pps plays for 10ms, but MinRefresh floors the
	// busy window at 50ms
	frame := make([]render.Point, 300)
	for i := range frame {
		frame[i] = render.Point{X: 1000, Y: 1000, R: 255, I: 0xFF}
	}
	if err := d.WriteFrame(0, 30000, 0, frame); err != nil {
		t.Fatal(err)
	}

	if ready, _ := d.Status(0); ready {
		t.Error("device ready immediately after a write")
	}

	*current = current.Add(20 * time.Millisecond)
	if ready, _ := d.Status(0); ready {
		t.Error("MinRefresh floor not applied")
	}

	*current = current.Add(40 * time.Millisecond)
	if ready, _ := d.Status(0); !ready {
		t.Error("device still busy after the refresh floor elapsed")
	}
}

func TestTerminalDACInterrupt(t *testing.T) {
	d, sim, _ := newSimulationDAC(t)

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)

	select {
	case err := <-d.ErrCh():
		if _, ok := err.(ErrDisplayInterrupt); !ok {
			t.Errorf("expected ErrDisplayInterrupt, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no interrupt surfaced after Ctrl-C")
	}
}
