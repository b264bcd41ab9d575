package dac

import (
	"fmt"
	"sync"
	"time"

	"github.com/Helitronix/laser-clock/render"
	"github.com/gdamore/tcell"
	runewidth "github.com/mattn/go-runewidth"
)

const (
	minDisplayHeight = 10
	minDisplayWidth  = 10
)

type TerminalDACOptions struct {
	// MinRefresh floors how long the device reports busy after a write,
	// independent of point rate, which throttles how often the terminal
	// redraws.
	MinRefresh time.Duration

	LabelHeight     int
	LabelTextOffset [2]int

	// Screen overrides the real terminal, for tests.
	Screen tcell.Screen

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

func NewDefaultTerminalDACOptions() TerminalDACOptions {
	return TerminalDACOptions{
		MinRefresh: time.Millisecond * 50,

		LabelHeight:     2,
		LabelTextOffset: [2]int{1, 0},
	}
}

func NewTerminalDAC(opts TerminalDACOptions) *TerminalDAC {
	if opts.LabelHeight == 0 {
		opts.LabelHeight = NewDefaultTerminalDACOptions().LabelHeight
		opts.LabelTextOffset = NewDefaultTerminalDACOptions().LabelTextOffset
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &TerminalDAC{
		opts: opts,

		errCh:  make(chan error, 1),
		doneCh: make(chan struct{}),
	}
}

// TerminalDAC simulates a single laser projector on the local terminal,
// plotting each frame's visible points onto the cell grid. It reports busy
// for the frame's play time after each write, so the streaming cadence
// matches a real device rated for the same point rate.
type TerminalDAC struct {
	opts TerminalDACOptions

	mu          sync.Mutex
	initialized bool
	busyUntil   time.Time
	frame       []render.Point
	pointRate   int

	screen tcell.Screen

	errCh  chan error
	doneCh chan struct{}
}

func (d *TerminalDAC) Init() error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen := d.opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return err
		}
	}

	if err := screen.Init(); err != nil {
		return err
	}
	d.screen = screen

	if err := d.checkScreenSize(); err != nil {
		screen.Fini()
		return err
	}

	d.mu.Lock()
	d.initialized = true
	d.mu.Unlock()

	go d.pollLoop()

	return nil
}

func (d *TerminalDAC) Close() error {
	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return nil
	}
	d.initialized = false
	d.mu.Unlock()

	// Fini unblocks the poll loop, which owns doneCh
	d.screen.Fini()
	<-d.doneCh
	close(d.errCh)

	return nil
}

func (d *TerminalDAC) DeviceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return 0
	}
	return 1
}

func (d *TerminalDAC) Status(device int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return false, ErrNotInitialized{}
	}
	if device != 0 {
		return false, ErrInvalidDevice{device, 1}
	}

	return !d.opts.Now().Before(d.busyUntil), nil
}

func (d *TerminalDAC) WriteFrame(device, pointRate int, flags WriteFlag, points []render.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized{}
	}
	if device != 0 {
		return ErrInvalidDevice{device, 1}
	}

	d.frame = append(d.frame[:0], points...)
	d.pointRate = pointRate

	busy := playTime(len(points), pointRate)
	if busy < d.opts.MinRefresh {
		busy = d.opts.MinRefresh
	}
	d.busyUntil = d.opts.Now().Add(busy)

	d.draw()
	return nil
}

// ErrCh surfaces interrupts caught by the terminal. tcell "takes over" the
// terminal, so Ctrl-C arrives here as a key event rather than as a signal.
func (d *TerminalDAC) ErrCh() chan error {
	return d.errCh
}

func (d *TerminalDAC) pollLoop() {
	defer close(d.doneCh)

	for {
		event := d.screen.PollEvent()
		if event == nil {
			return
		}

		switch event := event.(type) {
		case *tcell.EventKey:
			switch event.Key() {
			case tcell.KeyCtrlC, tcell.KeyEsc:
				d.sendErr(ErrDisplayInterrupt{})
			}
		case *tcell.EventResize:
			d.mu.Lock()
			if d.initialized {
				d.draw()
			}
			d.mu.Unlock()
		}
	}
}

func (d *TerminalDAC) sendErr(err error) {
	select {
	case d.errCh <- err:
	default:
	}
}

func (d *TerminalDAC) checkScreenSize() error {
	width, height := d.screen.Size()
	if width < minDisplayWidth || height < minDisplayHeight {
		return ErrDisplayTooSmall{width: width, height: height}
	}

	return nil
}

// draw: caller holds the mutex
func (d *TerminalDAC) draw() {
	d.screen.Clear()

	d.drawFrame()
	d.drawLabel()

	d.screen.Show()
}

func (d *TerminalDAC) drawFrame() {
	width, height := d.screen.Size()
	plotHeight := height - d.opts.LabelHeight
	if width < 2 || plotHeight < 2 {
		return
	}

	trueColor := d.screen.Colors() > 256

	for _, p := range d.frame {
		// blanked travel and dwell points carry no beam
		if p.R == 0 && p.G == 0 && p.B == 0 {
			continue
		}

		// device y is up, terminal rows grow down
		col := int(p.X) * (width - 1) / render.MaxCoord
		row := (plotHeight - 1) - int(p.Y)*(plotHeight-1)/render.MaxCoord

		style := tcell.StyleDefault
		if trueColor {
			style = style.Foreground(tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B)))
		}
		d.screen.SetContent(col, row, '█', nil, style)
	}
}

func (d *TerminalDAC) drawLabel() {
	style := tcell.StyleDefault.Background(tcell.ColorLightGray).Foreground(tcell.ColorBlack)

	width, height := d.screen.Size()

	startY := height - d.opts.LabelHeight
	for row := startY; row < height; row++ {
		for col := 0; col < width; col++ {
			d.screen.SetContent(col, row, ' ', nil, style)
		}
	}

	x := d.opts.LabelTextOffset[0]
	y := startY + d.opts.LabelTextOffset[1]

	label := fmt.Sprintf("%s  %d pts @ %d pps",
		d.opts.Now().Format("2006-01-02 15:04:05"), len(d.frame), d.pointRate)

	i := 0
	for _, ru := range label {
		d.screen.SetContent(x+i, y, ru, nil, style)
		i += runewidth.RuneWidth(ru)
	}
}
