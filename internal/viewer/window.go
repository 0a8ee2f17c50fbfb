// Package viewer shows rendered figures in a desktop window.
package viewer

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/banshee-data/ledviz/internal/render"
	"github.com/banshee-data/ledviz/internal/version"
)

// Default upper bound for the initial window size, in device-independent pixels.
const (
	DefaultMaxWidth  = 1400
	DefaultMaxHeight = 1000
)

// Window implements render.Displayer with an ebiten window. The figure is
// scaled to the window and keeps its aspect ratio when resized.
type Window struct {
	MaxWidth, MaxHeight int
}

var _ render.Displayer = (*Window)(nil)

// Display opens the window and blocks until it is closed. Esc and Q also
// close it.
func (w *Window) Display(title string, img image.Image) error {
	maxW, maxH := w.MaxWidth, w.MaxHeight
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	if maxH <= 0 {
		maxH = DefaultMaxHeight
	}

	b := img.Bounds()
	ebiten.SetWindowTitle(title + " - ledviz (" + version.Short() + ")")
	ebiten.SetWindowSize(render.FitWithin(b.Dx(), b.Dy(), maxW, maxH))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)
	return ebiten.RunGame(&figureGame{src: img})
}

type figureGame struct {
	src image.Image
	img *ebiten.Image
}

func (g *figureGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *figureGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImageFromImage(g.src)
	}
	screen.DrawImage(g.img, nil)
}

func (g *figureGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.src.Bounds()
	return b.Dx(), b.Dy()
}
