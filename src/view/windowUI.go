//go:build ebiten

package view

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	errgo "gopkg.in/errgo.v1"

	"toruslife/src/simulation"
)

//WindowUI shows the universe in a desktop window, one square per cell
type WindowUI struct {
	s     *simulation.Simulation
	scale int
	ctx   context.Context

	img *ebiten.Image
	buf []byte

	onColor  color.Color
	offColor color.Color
}

//NewWindowUI draws every cell as a scale x scale square
func NewWindowUI(scale int) (*WindowUI, error) {
	if scale <= 0 {
		scale = 8
	}
	return &WindowUI{
		scale:    scale,
		ctx:      context.Background(),
		onColor:  color.RGBA{R: 0x4c, G: 0xd1, B: 0x37, A: 0xff},
		offColor: color.Black,
	}, nil
}

func (w *WindowUI) Register(s *simulation.Simulation) {
	w.s = s
	o := s.Options()
	w.img = ebiten.NewImage(o.Width, o.Height)
	w.buf = make([]byte, 4*o.Width*o.Height)
}

//Refresh is a no-op, the window redraws every frame
func (w *WindowUI) Refresh() {}

//Start runs the window until it is closed or ctx is cancelled
//ebiten needs to be started from the main goroutine
func (w *WindowUI) Start(ctx context.Context) error {
	w.ctx = ctx
	o := w.s.Options()
	ebiten.SetWindowTitle("toruslife")
	ebiten.SetWindowSize(o.Width*w.scale, o.Height*w.scale)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return errgo.Notef(err, "window failed")
	}
	return nil
}

//Update handles the keyboard and mouse, the simulation ticks on its own timer
func (w *WindowUI) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if w.s.Status().RunningMode == simulation.RunningStateRun {
			err = w.s.Stop()
		} else {
			err = w.s.Run()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		err = w.s.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		err = w.s.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		err = w.s.Clear()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		if row, col, ok := cellAt(x, y, w.scale, w.s.Snapshot()); ok {
			err = w.s.Toggle(row, col)
		}
	}
	if errgo.Cause(err) == simulation.ErrClosed {
		return ebiten.Termination
	}
	return err
}

func (w *WindowUI) Draw(screen *ebiten.Image) {
	fillRGBA(w.buf, w.s.Snapshot(), w.onColor, w.offColor)
	w.img.WritePixels(w.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)
}

func (w *WindowUI) Layout(outsideWidth, outsideHeight int) (int, int) {
	o := w.s.Options()
	return o.Width * w.scale, o.Height * w.scale
}
