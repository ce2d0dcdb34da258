package mapcanvas

// Image is a decoded bitmap owned by a Backend.
type Image interface {
	Width() int
	Height() int
}

// ImageLoader decodes image files into backend images and releases them.
// The TextureCache is the only caller; it owns every Image it receives.
type ImageLoader interface {
	// LoadImage reads and decodes the file at path.
	LoadImage(path string) (Image, error)
	// ReleaseImage frees the backend resources behind img. The image is not
	// used again afterwards.
	ReleaseImage(img Image)
}

// Backend is the primitive sink a DeferredCanvas executes drained commands
// against. Implementations live in their own packages (ebitenbackend,
// ggbackend); this package never imports backend types.
//
// Every method receives the Transform captured when the command was
// enqueued. Geometry arguments are in the local space of that transform.
// Methods are only called from DeferredCanvas.FinalizeFrame, in paint order.
type Backend interface {
	ImageLoader

	// DrawTriangles fills an indexed triangle list with a flat color.
	DrawTriangles(vertices []Vec2, indices []uint16, c Color, t Transform)
	// DrawLineStrip strokes a hairline through points in order.
	DrawLineStrip(points []Vec2, c Color, t Transform)
	// FillRect paints a unit-pixel sprite scaled to size at origin.
	FillRect(origin, size Vec2, c Color, t Transform)
	// DrawImage blits img scaled to size at origin.
	DrawImage(img Image, origin, size Vec2, t Transform)
	// DrawString renders text with the backend's default face, or does
	// nothing if the backend has no text support.
	DrawString(origin Vec2, text string, fontSize float64, c Color, t Transform)

	// ViewportSize reports the current drawable size in pixels.
	ViewportSize() (width, height int)
	// EndFrame runs after the drain: flip, resize and projection
	// bookkeeping that is not itself a draw.
	EndFrame()
}
