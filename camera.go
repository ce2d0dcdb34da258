package mapcanvas

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits and the default wheel rate used when a Camera leaves the
// corresponding fields at zero.
const (
	MinZoom         = 0.1
	MaxZoom         = 7.0
	DefaultZoomRate = 0.005 // zoom units per wheel unit per millisecond
)

// scrollAnim holds the active tweens of an animated camera move.
type scrollAnim struct {
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	tweenZoom *gween.Tween
	doneX     bool
	doneY     bool
	doneZoom  bool
}

// Camera holds the pan/zoom state of one viewport.
//
// The derived transform is Scale(Zoom, Zoom) * Translate(X, Y): the pan is
// applied first, in world units, then the zoom.
type Camera struct {
	// X and Y are the world-space pan offset.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64

	// MinZoom and MaxZoom bound Zoom. Zero selects the package defaults.
	MinZoom, MaxZoom float64
	// ZoomRate scales wheel input in ZoomBy. Zero selects DefaultZoomRate.
	ZoomRate float64

	scrollTween *scrollAnim
}

// NewCamera creates a Camera at the origin with zoom 1.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) zoomLimits() (lo, hi float64) {
	lo, hi = c.MinZoom, c.MaxZoom
	if lo <= 0 {
		lo = MinZoom
	}
	if hi <= 0 {
		hi = MaxZoom
	}
	return lo, hi
}

// clampZoom restricts Zoom to the camera's limits.
func (c *Camera) clampZoom() {
	lo, hi := c.zoomLimits()
	c.Zoom = math.Max(lo, math.Min(c.Zoom, hi))
}

// Pan moves the camera by a screen-space delta. The delta is converted to
// world units by dividing by zoom*viewportScale, where viewportScale is the
// fit-to-window scale the presentation layer applied this frame.
func (c *Camera) Pan(dx, dy, viewportScale float64) {
	k := c.Zoom * viewportScale
	c.X += dx / k
	c.Y += dy / k
}

// ZoomBy adds ZoomRate*delta*elapsedMillis to the zoom and clamps it.
func (c *Camera) ZoomBy(delta, elapsedMillis float64) {
	rate := c.ZoomRate
	if rate == 0 {
		rate = DefaultZoomRate
	}
	c.Zoom += rate * delta * elapsedMillis
	c.clampZoom()
}

// SetZoom sets the zoom directly, clamped to the camera's limits.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = z
	c.clampZoom()
}

// Transform returns Scale(Zoom, Zoom) * Translate(X, Y).
func (c *Camera) Transform() Transform {
	return Scale(c.Zoom, c.Zoom).Mul(Translate(c.X, c.Y))
}

// CenterOn pans the camera so the center of r maps to the origin of camera
// space. The presentation layer then centers that origin in the viewport.
func (c *Camera) CenterOn(r Rect) {
	center := r.Center()
	c.X = -center.X
	c.Y = -center.Y
}

// ScrollTo animates the camera to the given pan and zoom over duration
// seconds. Advance the animation with Update.
func (c *Camera) ScrollTo(x, y, zoom float64, duration float32, easeFn ease.TweenFunc) {
	lo, hi := c.zoomLimits()
	zoom = math.Max(lo, math.Min(zoom, hi))
	c.scrollTween = &scrollAnim{
		tweenX:    gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY:    gween.New(float32(c.Y), float32(y), duration, easeFn),
		tweenZoom: gween.New(float32(c.Zoom), float32(zoom), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// StopScroll cancels an in-progress ScrollTo, leaving the camera where it is.
func (c *Camera) StopScroll() {
	c.scrollTween = nil
}

// Update advances a ScrollTo animation by dt seconds.
func (c *Camera) Update(dt float32) {
	st := c.scrollTween
	if st == nil {
		return
	}
	if !st.doneX {
		val, done := st.tweenX.Update(dt)
		c.X = float64(val)
		st.doneX = done
	}
	if !st.doneY {
		val, done := st.tweenY.Update(dt)
		c.Y = float64(val)
		st.doneY = done
	}
	if !st.doneZoom {
		val, done := st.tweenZoom.Update(dt)
		c.Zoom = float64(val)
		st.doneZoom = done
	}
	c.clampZoom()
	if st.doneX && st.doneY && st.doneZoom {
		c.scrollTween = nil
	}
}

// Reset cancels any animation and returns to the origin at zoom 1.
func (c *Camera) Reset() {
	c.scrollTween = nil
	c.X, c.Y = 0, 0
	c.Zoom = 1
	c.clampZoom()
}

// ScreenToWorld maps a screen point back to world space. root is the full
// transform used for the frame, camera included.
func ScreenToWorld(root Transform, sx, sy float64) (wx, wy float64) {
	return root.Invert().ApplyXY(sx, sy)
}

// WorldToScreen maps a world point to screen space through root.
func WorldToScreen(root Transform, wx, wy float64) (sx, sy float64) {
	return root.ApplyXY(wx, wy)
}
