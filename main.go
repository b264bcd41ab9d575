package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Helitronix/laser-clock/dac"
	"github.com/Helitronix/laser-clock/render"
	"github.com/Helitronix/laser-clock/stream"
)

type invalidArgErr struct {
	flags, desc string
}

func (i invalidArgErr) Error() string {
	return fmt.Sprintf("invalid flags %s  %s", i.flags, i.desc)
}

type options struct {
	size               int
	xpos, ypos         int
	color              render.Color
	dwell, hiddenDwell int
	divider            float64
	separator          render.Separator

	backend   dac.Backend
	device    int
	pointRate int
}

// newOptions: create and parse flags, returning an options struct with all values
func newOptions() (options, error) {
	// geometry options
	size := flag.Int("size", 250, "digit size; values of 100 through 350 work well")
	xpos := flag.Int("xpos", 0, "left most x coordinate of the clock face")
	ypos := flag.Int("ypos", 2000, "top y coordinate of the digit cells")
	color := flag.Int("color", 1, "beam color 0-7; unknown values fall back to white")
	separator := flag.String("separator", "square", "colon separator style, square or circle")

	// interpolator options
	dwell := flag.Int("dwell", 10, "endpoint dwell repeats for visible lines")
	hiddenDwell := flag.Int("hidden-dwell", 15, "endpoint dwell repeats for hidden lines")
	divider := flag.Float64("divider", 50.0, "maximum interpolated segment length")

	// device options
	backend := flag.String("display", "terminal", "output backend, terminal or window")
	device := flag.Int("device", 0, "device index to stream to")
	pointRate := flag.Int("point-rate", 30000, "output rate in points per second")

	flag.Parse()
	opts := options{}

	if *size < 1 {
		return options{}, invalidArgErr{"-size", "must be greater than 0"}
	}
	opts.size = *size
	opts.xpos = *xpos
	opts.ypos = *ypos

	// out of range color selectors map to white by the device color
	// contract rather than being rejected here
	opts.color = render.Color(*color)

	parsedSeparator, err := render.ParseSeparator(*separator)
	if err != nil {
		return options{}, invalidArgErr{"-separator", err.Error()}
	}
	opts.separator = parsedSeparator

	if *dwell < 0 {
		return options{}, invalidArgErr{"-dwell", "must not be negative"}
	}
	opts.dwell = *dwell

	if *hiddenDwell < 0 {
		return options{}, invalidArgErr{"-hidden-dwell", "must not be negative"}
	}
	opts.hiddenDwell = *hiddenDwell

	if *divider <= 0 {
		return options{}, invalidArgErr{"-divider", "must be greater than 0"}
	}
	opts.divider = *divider

	parsedBackend, err := dac.ParseBackend(*backend)
	if err != nil {
		return options{}, invalidArgErr{"-display", err.Error()}
	}
	opts.backend = parsedBackend

	if *device < 0 {
		return options{}, invalidArgErr{"-device", "must not be negative"}
	}
	opts.device = *device

	if *pointRate < 1 {
		return options{}, invalidArgErr{"-point-rate", "must be greater than 0"}
	}
	opts.pointRate = *pointRate

	return opts, nil
}

// run: build the render pipeline, open the selected backend and stream until
// ctx is cancelled or the device fails
func run(ctx context.Context, opts options) error {
	canvasOpts := render.NewDefaultCanvasOptions()
	canvasOpts.Divider = opts.divider
	canvasOpts.Dwell = opts.dwell
	canvasOpts.HiddenDwell = opts.hiddenDwell
	canvas := render.NewCanvas(canvasOpts)

	face := render.Face{
		OriginX:   opts.xpos,
		OriginY:   opts.ypos,
		Size:      opts.size,
		Color:     opts.color,
		Separator: opts.separator,
	}

	streamerOpts := stream.NewDefaultStreamerOptions()
	streamerOpts.Device = opts.device
	streamerOpts.PointRate = opts.pointRate

	start := func(d dac.DAC) error {
		if err := d.Init(); err != nil {
			return err
		}
		defer d.Close()

		if d.DeviceCount() < 1 {
			return dac.ErrNoDevices{}
		}

		return stream.NewStreamer(d, canvas, face, streamerOpts).Run(ctx)
	}

	if opts.backend == dac.WindowBackend {
		return dac.RunWindow(dac.NewDefaultWindowOptions(), start)
	}

	// tcell owns the terminal while the backend runs, so keep the status
	// chatter off stderr
	streamerOpts.Logf = func(string, ...interface{}) {}

	term := dac.NewTerminalDAC(dac.NewDefaultTerminalDACOptions())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for err := range term.ErrCh() {
			if _, ok := err.(dac.ErrDisplayInterrupt); ok {
				cancel()
				return
			}
		}
	}()

	return start(term)
}

func main() {
	opts, err := newOptions()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
