package mapcanvas

import (
	"math"
	"time"
)

// Canvas is the drawing surface a scene driver paints a map onto. Every draw
// call is deferred: it bakes its geometry, captures the Transform by value and
// queues one command at the given priority. Nothing reaches the backend until
// FinalizeFrame, which paints in (priority, submission) order.
//
// Draw calls have no result. Only LoadTexture can fail.
type Canvas interface {
	DrawCircle(center Vec2, radius float64, c Color, t Transform, p DrawPriority)
	DrawLine(p1, p2 Vec2, c Color, t Transform, p DrawPriority)
	DrawMultiColorLine(p1, p2 Vec2, colors []Color, t Transform, p DrawPriority)
	DrawRect(origin, size Vec2, filled bool, c Color, t Transform, p DrawPriority)
	DrawString(origin Vec2, text string, fontSize float64, c Color, t Transform, p DrawPriority)
	DrawTexture(origin Vec2, tex *Texture, t Transform, p DrawPriority)
	DrawTextureRect(origin, size Vec2, tex *Texture, t Transform, p DrawPriority)

	LoadTexture(path string) (*Texture, error)
	ClearTextureCache()

	FinalizeFrame()
}

// DefaultMultiColorLineOffset is the screen-space distance in pixels between
// neighbouring strokes of a multi-color line.
const DefaultMultiColorLineOffset = 1.0

// maxCircleSubdivisions keeps circle fans addressable with uint16 indices.
const maxCircleSubdivisions = math.MaxUint16 - 1

// CanvasConfig configures a DeferredCanvas. The zero value is usable.
type CanvasConfig struct {
	// AssetRoot is the directory LoadTexture resolves relative paths against.
	AssetRoot string
	// MultiColorLineOffset is the pixel gap between parallel strokes drawn
	// by DrawMultiColorLine. Zero selects DefaultMultiColorLineOffset.
	MultiColorLineOffset float64
	// Debug logs per-frame stats at debug level after every FinalizeFrame.
	Debug bool
}

// DeferredCanvas implements Canvas on top of a Backend.
//
// It is single-threaded: every method must be called from the goroutine that
// runs the frame loop. If traversal is ever split across goroutines, give each
// one its own queue and merge them before FinalizeFrame.
type DeferredCanvas struct {
	backend  Backend
	cfg      CanvasConfig
	queue    *BucketQueue[DrawCommand]
	textures *TextureCache

	// released holds evicted textures whose images are freed after the
	// next drain, because queued commands may still reference them.
	released []*Texture

	frame     uint64
	stats     FrameStats
	lastStats FrameStats
}

var _ Canvas = (*DeferredCanvas)(nil)

// NewCanvas creates a canvas that executes against backend.
func NewCanvas(backend Backend, cfg CanvasConfig) *DeferredCanvas {
	if cfg.MultiColorLineOffset == 0 {
		cfg.MultiColorLineOffset = DefaultMultiColorLineOffset
	}
	return &DeferredCanvas{
		backend:  backend,
		cfg:      cfg,
		queue:    NewBucketQueue[DrawCommand](NumPriorities),
		textures: NewTextureCache(cfg.AssetRoot, backend),
	}
}

// Config returns the effective configuration.
func (c *DeferredCanvas) Config() CanvasConfig {
	return c.cfg
}

// Textures returns the canvas's texture cache.
func (c *DeferredCanvas) Textures() *TextureCache {
	return c.textures
}

// Pending returns the number of commands waiting for FinalizeFrame.
func (c *DeferredCanvas) Pending() int {
	return c.queue.Count()
}

// Frame returns the number of frames finalized so far.
func (c *DeferredCanvas) Frame() uint64 {
	return c.frame
}

// ViewportSize reports the backend's drawable size in pixels.
func (c *DeferredCanvas) ViewportSize() (width, height int) {
	return c.backend.ViewportSize()
}

// enqueue queues cmd at priority p. An out-of-range priority is a
// programmer error and panics.
func (c *DeferredCanvas) enqueue(cmd DrawCommand, p DrawPriority) {
	cmd.Priority = p
	if err := c.queue.Push(cmd, int(p)); err != nil {
		panic(err)
	}
	c.stats.Submitted[p]++
}

// CircleSubdivisions returns the number of fan triangles used for a circle of
// the given radius: max(8, ceil(radius/1.5)), capped at 65534 so the fan
// indexes with uint16. A NaN radius gets the minimum and +Inf the cap.
func CircleSubdivisions(radius float64) int {
	n := math.Ceil(radius / 1.5)
	switch {
	case math.IsNaN(n) || n < 8:
		return 8
	case n > maxCircleSubdivisions:
		return maxCircleSubdivisions
	}
	return int(n)
}

// DrawCircle fills a circle tessellated into a triangle fan. The vertex count
// adapts to the radius so large circles stay smooth and small ones cheap.
func (c *DeferredCanvas) DrawCircle(center Vec2, radius float64, col Color, t Transform, p DrawPriority) {
	subdiv := CircleSubdivisions(radius)

	vertices := make([]Vec2, subdiv+1)
	vertices[0] = center
	for i := 0; i < subdiv; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(subdiv))
		vertices[i+1] = Vec2{center.X + radius*cos, center.Y + radius*sin}
	}

	indices := make([]uint16, subdiv*3)
	for i := 0; i < subdiv; i++ {
		indices[3*i] = 0
		indices[3*i+1] = uint16(i + 1)
		indices[3*i+2] = uint16(i + 2)
	}
	// The last triangle closes the fan on the first rim vertex.
	indices[len(indices)-1] = 1

	c.enqueue(DrawCommand{
		Kind:      CommandTriangles,
		Transform: t,
		Color:     col,
		Vertices:  vertices,
		Indices:   indices,
	}, p)
}

// DrawLine strokes a hairline from p1 to p2.
func (c *DeferredCanvas) DrawLine(p1, p2 Vec2, col Color, t Transform, p DrawPriority) {
	c.enqueue(DrawCommand{
		Kind:      CommandLineStrip,
		Transform: t,
		Color:     col,
		Vertices:  []Vec2{p1, p2},
	}, p)
}

// DrawMultiColorLine draws len(colors) parallel hairlines centered on the
// segment p1-p2. The endpoints are transformed first and the strokes are
// offset in screen space, so their pixel spacing stays constant at any zoom.
func (c *DeferredCanvas) DrawMultiColorLine(p1, p2 Vec2, colors []Color, t Transform, p DrawPriority) {
	if len(colors) == 0 {
		return
	}
	a := t.Apply(p1)
	b := t.Apply(p2)
	if a.X > b.X {
		a, b = b, a
	}

	offX, offY := a.Y-b.Y, b.X-a.X
	if l := math.Hypot(offX, offY); l > 0 {
		offX /= l
		offY /= l
	}

	center := float64(len(colors)-1) / 2
	for i, col := range colors {
		mult := c.cfg.MultiColorLineOffset * (float64(i) - center)
		off := Vec2{offX * mult, offY * mult}
		c.DrawLine(a.Add(off), b.Add(off), col, Identity, p)
	}
}

// DrawRect paints a rectangle. Filled rects are a single scaled unit-pixel
// sprite; outlines stroke the four transformed corners as a closed polyline.
func (c *DeferredCanvas) DrawRect(origin, size Vec2, filled bool, col Color, t Transform, p DrawPriority) {
	if filled {
		c.enqueue(DrawCommand{
			Kind:      CommandFillRect,
			Transform: t,
			Color:     col,
			Origin:    origin,
			Size:      size,
		}, p)
		return
	}

	x, y, w, h := origin.X, origin.Y, size.X, size.Y
	c.enqueue(DrawCommand{
		Kind:      CommandLineStrip,
		Transform: t,
		Color:     col,
		Vertices: []Vec2{
			{x, y},
			{x + w, y},
			{x + w, y + h},
			{x, y + h},
			{x, y},
		},
	}, p)
}

// DrawString queues text at origin. Backends without text support skip it,
// so callers must not depend on visible output.
func (c *DeferredCanvas) DrawString(origin Vec2, text string, fontSize float64, col Color, t Transform, p DrawPriority) {
	if text == "" {
		return
	}
	c.enqueue(DrawCommand{
		Kind:      CommandString,
		Transform: t,
		Color:     col,
		Origin:    origin,
		Text:      text,
		FontSize:  fontSize,
	}, p)
}

// DrawTexture blits tex at its native size. Empty textures are ignored.
func (c *DeferredCanvas) DrawTexture(origin Vec2, tex *Texture, t Transform, p DrawPriority) {
	if tex.Empty() {
		return
	}
	c.DrawTextureRect(origin, Vec2{float64(tex.Width()), float64(tex.Height())}, tex, t, p)
}

// DrawTextureRect blits tex scaled to size. Empty textures are ignored.
func (c *DeferredCanvas) DrawTextureRect(origin, size Vec2, tex *Texture, t Transform, p DrawPriority) {
	if tex.Empty() {
		return
	}
	c.enqueue(DrawCommand{
		Kind:      CommandImage,
		Transform: t,
		Color:     ColorWhite,
		Origin:    origin,
		Size:      size,
		Texture:   tex,
	}, p)
}

// LoadTexture resolves path against the asset root and returns the cached
// texture, loading it on first use. On failure it returns an empty texture
// that draws nothing along with a *LoadError; see TextureCache.Load.
func (c *DeferredCanvas) LoadTexture(path string) (*Texture, error) {
	return c.textures.Load(path)
}

// ClearTextureCache evicts every texture. Images referenced by commands that
// are still queued are released after the next FinalizeFrame; the rest are
// released immediately.
func (c *DeferredCanvas) ClearTextureCache() {
	evicted := c.textures.evict()
	if c.queue.Count() == 0 {
		for _, tex := range evicted {
			c.textures.release(tex)
		}
		return
	}
	c.released = append(c.released, evicted...)
}

// FinalizeFrame drains the queue against the backend in paint order, frees
// textures evicted during the frame, then lets the backend do its
// end-of-frame bookkeeping.
func (c *DeferredCanvas) FinalizeFrame() {
	var t0 time.Time
	if c.cfg.Debug {
		t0 = time.Now()
	}

	c.queue.Drain(func(cmd DrawCommand) {
		cmd.execute(c.backend)
		c.stats.Executed++
	})

	for i, tex := range c.released {
		c.textures.release(tex)
		c.released[i] = nil
	}
	c.released = c.released[:0]

	c.backend.EndFrame()

	c.stats.Frame = c.frame
	c.stats.Textures = c.textures.Len()
	if c.cfg.Debug {
		c.stats.DrainTime = time.Since(t0)
		c.debugLog(c.stats)
	}
	c.lastStats = c.stats
	c.stats = FrameStats{}
	c.frame++
}

// Close discards queued commands and releases every cached texture. The
// canvas must not be used afterwards.
func (c *DeferredCanvas) Close() {
	c.queue.Drain(func(DrawCommand) {})
	for _, tex := range c.released {
		c.textures.release(tex)
	}
	c.released = nil
	c.textures.Clear()
}
