package dac

import (
	"image"
	"sync"
	"time"

	"github.com/Helitronix/laser-clock/render"
	"github.com/hajimehoshi/ebiten/v2"
)

type WindowOptions struct {
	Title string

	// Size is the square window edge in pixels; device coordinates are
	// scaled down onto it.
	Size int

	TPS int
}

func NewDefaultWindowOptions() WindowOptions {
	return WindowOptions{
		Title: "laser-clock",
		Size:  1024,
		TPS:   60,
	}
}

// NewWindowDAC returns the DAC half of the window backend. It only stores
// frames; RunWindow owns the window that presents them.
func NewWindowDAC() *WindowDAC {
	return &WindowDAC{now: time.Now}
}

// WindowDAC simulates a single laser projector backed by a desktop window.
// WriteFrame snapshots the frame under a mutex and the window loop presents
// the latest snapshot, so the streaming side never blocks on rendering.
type WindowDAC struct {
	mu          sync.Mutex
	initialized bool
	busyUntil   time.Time
	frame       []render.Point

	now func() time.Time
}

func (w *WindowDAC) Init() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.initialized = true
	return nil
}

func (w *WindowDAC) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.initialized = false
	return nil
}

func (w *WindowDAC) DeviceCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return 0
	}
	return 1
}

func (w *WindowDAC) Status(device int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return false, ErrNotInitialized{}
	}
	if device != 0 {
		return false, ErrInvalidDevice{device, 1}
	}

	return !w.now().Before(w.busyUntil), nil
}

func (w *WindowDAC) WriteFrame(device, pointRate int, flags WriteFlag, points []render.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return ErrNotInitialized{}
	}
	if device != 0 {
		return ErrInvalidDevice{device, 1}
	}

	w.frame = append(w.frame[:0], points...)
	w.busyUntil = w.now().Add(playTime(len(points), pointRate))

	return nil
}

func (w *WindowDAC) snapshot(dst []render.Point) []render.Point {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append(dst, w.frame...)
}

// RunWindow opens a desktop window that displays frames written to the
// returned DAC, runs start against it on a separate goroutine and blocks
// until start returns or the window is closed.
func RunWindow(opts WindowOptions, start func(DAC) error) error {
	if opts.Size == 0 {
		opts = NewDefaultWindowOptions()
	}

	d := NewWindowDAC()
	g := &windowGame{
		d:      d,
		size:   opts.Size,
		doneCh: make(chan error, 1),
	}

	go func() {
		g.doneCh <- start(d)
	}()

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Size, opts.Size)
	ebiten.SetTPS(opts.TPS)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}

	select {
	case err := <-g.doneCh:
		return err
	default:
		return nil
	}
}

type windowGame struct {
	d    *WindowDAC
	size int

	img     *image.RGBA
	tex     *ebiten.Image
	scratch []render.Point

	doneCh chan error
}

func (g *windowGame) Update() error {
	select {
	case err := <-g.doneCh:
		if err != nil {
			return err
		}
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, g.size, g.size))
		g.tex = ebiten.NewImage(g.size, g.size)
	}

	pix := g.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 0
		pix[i+1] = 0
		pix[i+2] = 0
		pix[i+3] = 0xFF
	}

	g.scratch = g.d.snapshot(g.scratch[:0])
	for _, p := range g.scratch {
		if p.R == 0 && p.G == 0 && p.B == 0 {
			continue
		}

		x := int(p.X) * (g.size - 1) / render.MaxCoord
		y := (g.size - 1) - int(p.Y)*(g.size-1)/render.MaxCoord
		g.plot(x, y, p.R, p.G, p.B)
	}

	g.tex.WritePixels(g.img.Pix)
	screen.DrawImage(g.tex, nil)
}

// plot: a 2x2 block per point reads better than single pixels at full scale
func (g *windowGame) plot(x, y int, r, gg, b uint8) {
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			px, py := x+dx, y+dy
			if px >= g.size || py >= g.size {
				continue
			}
			i := (py*g.size + px) * 4
			g.img.Pix[i] = r
			g.img.Pix[i+1] = gg
			g.img.Pix[i+2] = b
		}
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size, g.size
}
