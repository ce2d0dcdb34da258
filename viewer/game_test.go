package viewer

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/mapcanvas"
)

// stubImage and stubBackend stand in for a real backend. They record
// nothing but the calls the viewer cares about.
type stubImage struct{}

func (stubImage) Width() int  { return 8 }
func (stubImage) Height() int { return 8 }

type stubBackend struct {
	w, h     int
	rects    []mapcanvas.Transform
	released int
	frames   int
}

func (b *stubBackend) LoadImage(string) (mapcanvas.Image, error) { return stubImage{}, nil }
func (b *stubBackend) ReleaseImage(mapcanvas.Image)              { b.released++ }
func (b *stubBackend) ViewportSize() (int, int)                  { return b.w, b.h }
func (b *stubBackend) EndFrame()                                 { b.frames++ }

func (b *stubBackend) FillRect(_, _ mapcanvas.Vec2, _ mapcanvas.Color, t mapcanvas.Transform) {
	b.rects = append(b.rects, t)
}

func (b *stubBackend) DrawTriangles([]mapcanvas.Vec2, []uint16, mapcanvas.Color, mapcanvas.Transform) {}
func (b *stubBackend) DrawLineStrip([]mapcanvas.Vec2, mapcanvas.Color, mapcanvas.Transform)           {}
func (b *stubBackend) DrawImage(mapcanvas.Image, mapcanvas.Vec2, mapcanvas.Vec2, mapcanvas.Transform) {}
func (b *stubBackend) DrawString(mapcanvas.Vec2, string, float64, mapcanvas.Color, mapcanvas.Transform) {
}

// boxScene draws one rect and reports fixed camera bounds.
type boxScene struct {
	bounds mapcanvas.Rect
	roots  []mapcanvas.Transform
}

func (s *boxScene) CameraBounds() mapcanvas.Rect { return s.bounds }

func (s *boxScene) DrawOn(c mapcanvas.Canvas, t mapcanvas.Transform) {
	s.roots = append(s.roots, t)
	c.DrawRect(mapcanvas.Vec2{}, mapcanvas.Vec2{X: 1, Y: 1}, true, mapcanvas.ColorWhite, t, mapcanvas.PriorityTerrain)
}

// openScene has no bounds.
type openScene struct{}

func (openScene) DrawOn(mapcanvas.Canvas, mapcanvas.Transform) {}

func newTestGame(t *testing.T, scene Drawable) (*Game, *stubBackend) {
	t.Helper()
	b := &stubBackend{w: 800, h: 600}
	cfg := DefaultConfig()
	cfg.Camera.ResetSeconds = 0
	g := newGame(scene, cfg, b)
	g.copyText = func(string) error { return nil }
	g.Layout(b.w, b.h)
	return g, b
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name   string
		vw, vh int
		bounds mapcanvas.Rect
		want   float64
	}{
		{"width bound", 800, 600, mapcanvas.Rect{Width: 1600, Height: 600}, 0.5},
		{"height bound", 800, 600, mapcanvas.Rect{Width: 800, Height: 200}, 1},
		{"upscale", 800, 600, mapcanvas.Rect{Width: 400, Height: 100}, 2},
		{"empty bounds", 800, 600, mapcanvas.Rect{}, 1},
		{"unknown viewport", 0, 0, mapcanvas.Rect{Width: 10, Height: 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNear(t, "fitScale", fitScale(tt.vw, tt.vh, tt.bounds), tt.want)
		})
	}
}

func TestRootTransformCentersBounds(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{X: 100, Y: 50, Width: 1600, Height: 1200}}
	g, _ := newTestGame(t, scene)

	g.drawFrame()
	if len(scene.roots) != 1 {
		t.Fatalf("DrawOn calls = %d, want 1", len(scene.roots))
	}
	root := scene.roots[0]

	// Bounds center lands on the viewport center; the bounds fill it.
	c := scene.bounds.Center()
	sx, sy := mapcanvas.WorldToScreen(root, c.X, c.Y)
	assertNear(t, "center x", sx, 400)
	assertNear(t, "center y", sy, 300)

	x0, y0 := mapcanvas.WorldToScreen(root, scene.bounds.X, scene.bounds.Y)
	assertNear(t, "top-left x", x0, 0)
	assertNear(t, "top-left y", y0, 0)
}

func TestCenteringHappensOnce(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 200, Height: 100}}
	g, _ := newTestGame(t, scene)

	g.step(1.0 / 60)
	if g.camera.X != -100 || g.camera.Y != -50 {
		t.Fatalf("camera = (%v, %v), want (-100, -50)", g.camera.X, g.camera.Y)
	}

	g.camera.X, g.camera.Y = 7, 9
	g.step(1.0 / 60)
	g.drawFrame()
	if g.camera.X != 7 || g.camera.Y != 9 {
		t.Errorf("camera recentered to (%v, %v)", g.camera.X, g.camera.Y)
	}
}

func TestCanvasUsesArtRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AssetRoot = "game"
	cfg.ArtDir = "mapArt"
	g := newGame(&boxScene{}, cfg, &stubBackend{})

	// Hot reload watches this root, so it must match where textures load from.
	if got, want := g.canvas.Config().AssetRoot, cfg.ArtRoot(); got != want {
		t.Errorf("canvas asset root = %q, want %q", got, want)
	}
}

func TestCenteringWaitsForViewport(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 200, Height: 100}}
	b := &stubBackend{}
	g := newGame(scene, DefaultConfig(), b)

	g.step(1.0 / 60)
	g.drawFrame()
	if g.centered {
		t.Fatal("centered before the viewport size was known")
	}

	b.w, b.h = 320, 240
	g.drawFrame()
	if !g.centered || g.camera.X != -100 {
		t.Errorf("centered = %v, camera.X = %v", g.centered, g.camera.X)
	}
}

func TestUnboundedSceneUsesUnitFit(t *testing.T) {
	g, _ := newTestGame(t, openScene{})
	if fit := g.fitScale(800, 600); fit != 1 {
		t.Errorf("fit = %v, want 1", fit)
	}
	g.step(1.0 / 60)
	if g.camera.X != 0 || g.camera.Y != 0 {
		t.Errorf("unbounded scene moved the camera to (%v, %v)", g.camera.X, g.camera.Y)
	}
}

func TestDragPansCamera(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 1600, Height: 1200}} // fit 0.5
	g, _ := newTestGame(t, scene)
	g.step(1.0 / 60)
	startX, startY := g.camera.X, g.camera.Y

	g.input.Advance(snap(nil, true, 100, 100))
	g.step(1.0 / 60)
	g.input.Advance(snap(nil, true, 110, 100)) // leaves the dead zone
	g.step(1.0 / 60)

	// 10 screen px at zoom 1 and fit 0.5 is 20 world units.
	assertNear(t, "camera x", g.camera.X, startX+20)
	assertNear(t, "camera y", g.camera.Y, startY)
}

func TestDragFollowsCursorFromPress(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 1600, Height: 1200}} // fit 0.5
	g, _ := newTestGame(t, scene)
	g.step(1.0 / 60)
	startX := g.camera.X

	// 3px stays in the dead zone, then 3px more starts the drag.
	for _, x := range []float64{100, 103, 106} {
		g.input.Advance(snap(nil, true, x, 100))
		g.step(1.0 / 60)
	}

	// All 6 screen px count: 12 world units at fit 0.5.
	assertNear(t, "camera x", g.camera.X, startX+12)
}

func TestWheelZoomKeepsCursorPoint(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 1600, Height: 1200}}
	g, _ := newTestGame(t, scene)
	g.step(1.0 / 60)

	fit := g.fitScale(800, 600)
	before := rootTransform(800, 600, fit, g.camera)
	wx, wy := mapcanvas.ScreenToWorld(before, 200, 150)

	g.input.Advance(Snapshot{CursorX: 200, CursorY: 150, WheelY: 2})
	g.step(1.0 / 60)

	if g.camera.Zoom <= 1 {
		t.Fatalf("zoom = %v, want > 1", g.camera.Zoom)
	}
	after := rootTransform(800, 600, fit, g.camera)
	sx, sy := mapcanvas.WorldToScreen(after, wx, wy)
	assertNear(t, "cursor x", sx, 200)
	assertNear(t, "cursor y", sy, 150)
}

func TestResetSnapsWithoutDuration(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 200, Height: 100}}
	g, _ := newTestGame(t, scene)
	g.step(1.0 / 60)

	g.camera.X, g.camera.Y = 500, 500
	g.camera.SetZoom(3)
	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyR}})
	g.step(1.0 / 60)

	if g.camera.X != -100 || g.camera.Y != -50 || g.camera.Zoom != 1 {
		t.Errorf("camera = (%v, %v, %v), want (-100, -50, 1)", g.camera.X, g.camera.Y, g.camera.Zoom)
	}
}

func TestResetAnimates(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 200, Height: 100}}
	g, _ := newTestGame(t, scene)
	g.cfg.Camera.ResetSeconds = 0.25
	g.step(1.0 / 60)

	g.camera.X, g.camera.Y = 500, 500
	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyR}})
	g.step(0.1)
	if !g.camera.Scrolling() {
		t.Fatal("reset should animate")
	}
	if g.camera.X == 500 || g.camera.X == -100 {
		t.Errorf("camera.X = %v, want between 500 and -100", g.camera.X)
	}

	g.input.Advance(Snapshot{})
	for i := 0; i < 10 && g.camera.Scrolling(); i++ {
		g.step(0.1)
	}
	if g.camera.Scrolling() {
		t.Fatal("animation did not finish")
	}
	assertNear(t, "camera x", g.camera.X, -100)
	assertNear(t, "camera y", g.camera.Y, -50)
}

func TestCopyCameraState(t *testing.T) {
	g, _ := newTestGame(t, openScene{})
	var copied []string
	g.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	g.camera.X, g.camera.Y = 1.5, -2
	g.camera.SetZoom(2)

	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyC}})
	g.step(1.0 / 60)
	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyC}})
	g.step(1.0 / 60) // still held: no second copy

	if len(copied) != 1 || copied[0] != "x=1.50 y=-2.00 zoom=2.000" {
		t.Errorf("copied = %q", copied)
	}
}

func TestCopyFailureIsNotFatal(t *testing.T) {
	g, _ := newTestGame(t, openScene{})
	g.copyText = func(string) error { return errors.New("no display") }
	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyC}})
	g.step(1.0 / 60)
}

func TestF12QueuesScreenshot(t *testing.T) {
	g, _ := newTestGame(t, openScene{})
	g.input.Advance(Snapshot{Keys: []ebiten.Key{ebiten.KeyF12}})
	g.step(1.0 / 60)
	if len(g.shots.queue) != 1 || g.shots.queue[0] != "x=0.00 y=0.00 zoom=1.000" {
		t.Errorf("queue = %q", g.shots.queue)
	}
}

func TestReloadClearsTextureCache(t *testing.T) {
	g, b := newTestGame(t, openScene{})
	events := make(chan string, 4)
	g.reload = events

	if _, err := g.canvas.LoadTexture("a.png"); err != nil {
		t.Fatal(err)
	}
	g.step(1.0 / 60)
	if g.canvas.Textures().Len() != 1 {
		t.Fatal("cache cleared without an event")
	}

	events <- "mapArt/a.png"
	events <- "mapArt/a.png"
	g.step(1.0 / 60)
	if g.canvas.Textures().Len() != 0 {
		t.Errorf("cache len = %d after reload, want 0", g.canvas.Textures().Len())
	}
	if b.released != 1 {
		t.Errorf("released = %d, want 1", b.released)
	}

	close(events)
	g.step(1.0 / 60)
	if g.reload != nil {
		t.Error("closed reload channel should be dropped")
	}
}

func TestDrawFrameDrains(t *testing.T) {
	scene := &boxScene{bounds: mapcanvas.Rect{Width: 800, Height: 600}}
	g, b := newTestGame(t, scene)
	g.drawFrame()
	g.drawFrame()
	if b.frames != 2 || len(b.rects) != 2 {
		t.Errorf("frames = %d, rects = %d, want 2, 2", b.frames, len(b.rects))
	}
	if g.canvas.Pending() != 0 {
		t.Errorf("pending = %d after drawFrame", g.canvas.Pending())
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOverlayText(t *testing.T) {
	cam := mapcanvas.NewCamera()
	got := overlayText(59.94, 60, cam)
	want := "FPS: 59.9\nTPS: 60.0\nx=0.00 y=0.00 zoom=1.000"
	if got != want {
		t.Errorf("overlayText = %q, want %q", got, want)
	}
}
