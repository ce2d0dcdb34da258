// Package viewer presents a mapcanvas scene in an ebiten window with a
// pan/zoom camera.
//
// Controls: drag with the left mouse button to pan, scroll to zoom around the
// cursor, R to reset the camera, F12 to save a screenshot, C to copy the
// camera state to the clipboard.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"golang.design/x/clipboard"

	"github.com/phanxgames/mapcanvas"
	"github.com/phanxgames/mapcanvas/ebitenbackend"
)

// Drawable is a scene the viewer paints every frame. t is the root
// transform: world space to window pixels, camera included.
type Drawable interface {
	DrawOn(c mapcanvas.Canvas, t mapcanvas.Transform)
}

// Bounded is implemented by scenes with a camera rectangle. The viewer fits
// it to the window and centers the camera on it.
type Bounded interface {
	CameraBounds() mapcanvas.Rect
}

// Game runs a Drawable under ebiten. It implements ebiten.Game.
type Game struct {
	cfg    Config
	scene  Drawable
	target *ebitenbackend.Backend
	canvas *mapcanvas.DeferredCanvas
	camera *mapcanvas.Camera
	input  InputState
	clear  mapcanvas.Color

	viewW, viewH int
	centered     bool

	shots   *screenshots
	overlay *fpsOverlay
	watcher *Watcher
	reload  <-chan string

	// copyText puts s on the system clipboard.
	copyText func(s string) error
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a viewer for scene. With cfg.HotReload set, the canvas's
// texture root is watched and the texture cache is cleared when images
// change.
func NewGame(scene Drawable, cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target := ebitenbackend.New()
	g := newGame(scene, cfg, target)
	g.target = target

	if cfg.ShowFPS {
		g.overlay = newFPSOverlay()
	}
	if cfg.HotReload {
		w, err := NewWatcher(g.canvas.Config().AssetRoot)
		if err != nil {
			mapcanvas.Logger().Warn("viewer: hot reload disabled", "err", err)
		} else {
			g.watcher = w
			g.reload = w.Events
		}
	}
	return g, nil
}

// newGame wires everything that does not need a window.
func newGame(scene Drawable, cfg Config, backend mapcanvas.Backend) *Game {
	cam := mapcanvas.NewCamera()
	cam.ZoomRate = cfg.Camera.ZoomRate
	cam.MinZoom = cfg.Camera.MinZoom
	cam.MaxZoom = cfg.Camera.MaxZoom

	bg, _ := ParseColor(cfg.ClearColor)
	return &Game{
		cfg:      cfg,
		scene:    scene,
		canvas:   mapcanvas.NewCanvas(backend, cfg.CanvasConfig()),
		camera:   cam,
		clear:    bg,
		shots:    newScreenshots(cfg.ScreenshotDir),
		copyText: writeClipboard(),
	}
}

// Camera returns the viewer's camera.
func (g *Game) Camera() *mapcanvas.Camera { return g.camera }

// Canvas returns the canvas scenes are drawn on.
func (g *Game) Canvas() *mapcanvas.DeferredCanvas { return g.canvas }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.input.Sample()
	g.step(1 / float64(ebiten.TPS()))
	return nil
}

// step applies one tick of input to the camera. dt is in seconds.
func (g *Game) step(dt float64) {
	g.drainReload()

	vw, vh := g.viewW, g.viewH
	g.ensureCentered(vw, vh)
	fit := g.fitScale(vw, vh)
	cam := g.camera
	in := &g.input

	if dx, dy := in.DragDelta(MouseLeft); dx != 0 || dy != 0 {
		cam.StopScroll()
		cam.Pan(dx, dy, fit)
	}
	if wheel := in.WheelDelta(); wheel != 0 {
		cam.StopScroll()
		sx, sy := in.Cursor()
		zoomAt(cam, wheel, dt*1000, sx, sy, vw, vh, fit)
	}
	if in.KeyPressed(ebiten.KeyR) {
		g.resetCamera()
	}
	if in.KeyPressed(ebiten.KeyF12) {
		g.shots.request(cameraState(cam))
	}
	if in.KeyPressed(ebiten.KeyC) {
		if err := g.copyText(cameraState(cam)); err != nil {
			mapcanvas.Logger().Warn("viewer: copy camera failed", "err", err)
		}
	}

	cam.Update(float32(dt))
	if g.overlay != nil {
		g.overlay.update(dt, cam)
	}
}

// drainReload clears the texture cache if the watcher reported any change
// since the last tick.
func (g *Game) drainReload() {
	if g.reload == nil {
		return
	}
	changed := 0
drain:
	for {
		select {
		case path, ok := <-g.reload:
			if !ok {
				g.reload = nil
				break drain
			}
			mapcanvas.Logger().Debug("viewer: asset changed", "path", path)
			changed++
		default:
			break drain
		}
	}
	if changed > 0 {
		g.canvas.ClearTextureCache()
		mapcanvas.Logger().Info("viewer: textures reloaded", "changes", changed)
	}
}

// ensureCentered centers the camera on the scene bounds the first time the
// viewport size is known.
func (g *Game) ensureCentered(vw, vh int) {
	if g.centered || vw <= 0 || vh <= 0 {
		return
	}
	g.centered = true
	if b, ok := g.scene.(Bounded); ok {
		g.camera.CenterOn(b.CameraBounds())
	}
}

func (g *Game) fitScale(vw, vh int) float64 {
	b, ok := g.scene.(Bounded)
	if !ok {
		return 1
	}
	return fitScale(vw, vh, b.CameraBounds())
}

// fitScale returns the largest scale at which bounds fits a vw x vh
// viewport, or 1 if either side is empty.
func fitScale(vw, vh int, bounds mapcanvas.Rect) float64 {
	if vw <= 0 || vh <= 0 || bounds.Width <= 0 || bounds.Height <= 0 {
		return 1
	}
	return math.Min(float64(vw)/bounds.Width, float64(vh)/bounds.Height)
}

// rootTransform is Translate(vw/2, vh/2) * Scale(fit) * cam.
func rootTransform(vw, vh int, fit float64, cam *mapcanvas.Camera) mapcanvas.Transform {
	return mapcanvas.Translate(float64(vw)/2, float64(vh)/2).
		Mul(mapcanvas.Scale(fit, fit)).
		Mul(cam.Transform())
}

// zoomAt zooms by wheel and pans so the world point under (sx, sy) stays
// under the cursor.
func zoomAt(cam *mapcanvas.Camera, wheel, elapsedMillis, sx, sy float64, vw, vh int, fit float64) {
	wx, wy := mapcanvas.ScreenToWorld(rootTransform(vw, vh, fit, cam), sx, sy)
	cam.ZoomBy(wheel, elapsedMillis)
	nx, ny := mapcanvas.WorldToScreen(rootTransform(vw, vh, fit, cam), wx, wy)
	cam.Pan(sx-nx, sy-ny, fit)
}

// resetCamera returns to the scene center at zoom 1, animated over
// Camera.ResetSeconds.
func (g *Game) resetCamera() {
	var x, y float64
	if b, ok := g.scene.(Bounded); ok {
		c := b.CameraBounds().Center()
		x, y = -c.X, -c.Y
	}
	if g.cfg.Camera.ResetSeconds <= 0 {
		g.camera.StopScroll()
		g.camera.X, g.camera.Y = x, y
		g.camera.SetZoom(1)
		return
	}
	g.camera.ScrollTo(x, y, 1, float32(g.cfg.Camera.ResetSeconds), ease.OutQuad)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.target.SetTarget(screen)
	screen.Fill(g.clear)

	g.drawFrame()

	if g.overlay != nil {
		g.overlay.draw(screen)
	}
	g.shots.flush(screen)
}

// drawFrame lets the scene enqueue its commands and drains them.
func (g *Game) drawFrame() {
	vw, vh := g.canvas.ViewportSize()
	g.ensureCentered(vw, vh)
	root := rootTransform(vw, vh, g.fitScale(vw, vh), g.camera)
	g.scene.DrawOn(g.canvas, root)
	g.canvas.FinalizeFrame()
}

// Layout implements ebiten.Game. The canvas always matches the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.viewW, g.viewH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close stops the watcher and releases every texture.
func (g *Game) Close() error {
	var err error
	if g.watcher != nil {
		err = g.watcher.Close()
		g.watcher = nil
		g.reload = nil
	}
	g.canvas.Close()
	return err
}

// writeClipboard returns a clipboard writer that initializes the clipboard
// on first use. If that fails every call reports the init error.
func writeClipboard() func(string) error {
	var (
		inited  bool
		initErr error
	)
	return func(s string) error {
		if !inited {
			inited = true
			if initErr = clipboard.Init(); initErr != nil {
				initErr = fmt.Errorf("viewer: clipboard unavailable: %w", initErr)
			}
		}
		if initErr != nil {
			return initErr
		}
		clipboard.Write(clipboard.FmtText, []byte(s))
		return nil
	}
}

// Run opens a window for scene and blocks until it is closed.
func Run(scene Drawable, cfg Config) error {
	g, err := NewGame(scene, cfg)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	mapcanvas.Logger().Info("viewer: window opened",
		"width", cfg.Window.Width, "height", cfg.Window.Height, "assets", cfg.ArtRoot())

	runErr := ebiten.RunGame(g)
	return errors.Join(runErr, g.Close())
}
