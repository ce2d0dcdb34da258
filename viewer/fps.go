package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/mapcanvas"
)

const overlayRefresh = 0.5 // seconds

// fpsOverlay shows FPS, TPS and the camera state in the top-left corner.
// The text is re-rendered into its own image about twice a second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

func newFPSOverlay() *fpsOverlay {
	// 180x48 fits three lines of the 6x16 debug font.
	return &fpsOverlay{img: ebiten.NewImage(180, 48), elapsed: overlayRefresh}
}

func (o *fpsOverlay) update(dt float64, cam *mapcanvas.Camera) {
	o.elapsed += dt
	if o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), cam))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(o.img, &op)
}

func overlayText(fps, tps float64, cam *mapcanvas.Camera) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s", fps, tps, cameraState(cam))
}

// cameraState formats the camera for the overlay and the clipboard.
func cameraState(cam *mapcanvas.Camera) string {
	return fmt.Sprintf("x=%.2f y=%.2f zoom=%.3f", cam.X, cam.Y, cam.Zoom)
}
