// Package ggbackend executes mapcanvas draw commands on a gogpu/gg context.
//
// It rasterizes on the CPU, so it needs no window or GPU. The map snapshot
// tool and the pixel-level tests use it.
package ggbackend

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/mapcanvas"
)

// Image wraps a gg.ImageBuf so it satisfies mapcanvas.Image.
type Image struct {
	buf *gg.ImageBuf
}

// Buf returns the wrapped buffer, or nil once released.
func (i *Image) Buf() *gg.ImageBuf { return i.buf }

func (i *Image) Width() int {
	if i.buf == nil {
		return 0
	}
	return i.buf.Width()
}

func (i *Image) Height() int {
	if i.buf == nil {
		return 0
	}
	return i.buf.Height()
}

// Backend draws into a gg.Context.
type Backend struct {
	dc *gg.Context

	// LineWidth is the stroke width in pixels.
	LineWidth float64

	source *text.FontSource
	faces  map[float64]text.Face
	frames uint64
}

var _ mapcanvas.Backend = (*Backend)(nil)

// New creates a backend with its own width x height context.
func New(width, height int) *Backend {
	return NewForContext(gg.NewContext(width, height))
}

// NewForContext creates a backend drawing into an existing context.
func NewForContext(dc *gg.Context) *Backend {
	b := &Backend{
		dc:        dc,
		LineWidth: 1,
		faces:     make(map[float64]text.Face),
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		mapcanvas.Logger().Warn("ggbackend: parse Go Regular failed, strings disabled", "err", err)
	} else {
		b.source = src
	}
	return b
}

// Context returns the underlying gg context.
func (b *Backend) Context() *gg.Context {
	return b.dc
}

// Clear fills the whole context with c.
func (b *Backend) Clear(c mapcanvas.Color) {
	b.dc.ClearWithColor(toRGBA(c))
}

// SavePNG writes the current raster to path.
func (b *Backend) SavePNG(path string) error {
	return b.dc.SavePNG(path)
}

// Close releases the font source and the context.
func (b *Backend) Close() error {
	if b.source != nil {
		_ = b.source.Close()
		b.source = nil
	}
	return b.dc.Close()
}

// ViewportSize returns the context size.
func (b *Backend) ViewportSize() (int, int) {
	return b.dc.Width(), b.dc.Height()
}

// LoadImage decodes path into a gg image buffer.
func (b *Backend) LoadImage(path string) (mapcanvas.Image, error) {
	img, err := mapcanvas.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return &Image{buf: gg.ImageBufFromImage(img)}, nil
}

// ReleaseImage drops the buffer so the garbage collector can reclaim it.
func (b *Backend) ReleaseImage(img mapcanvas.Image) {
	if gi, ok := img.(*Image); ok {
		gi.buf = nil
	}
}

// DrawTriangles fills every indexed triangle as one path.
func (b *Backend) DrawTriangles(vertices []mapcanvas.Vec2, indices []uint16, c mapcanvas.Color, t mapcanvas.Transform) {
	if len(indices) < 3 {
		return
	}
	b.dc.SetTransform(Matrix(t))
	for i := 0; i+2 < len(indices); i += 3 {
		p0, p1, p2 := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		b.dc.MoveTo(p0.X, p0.Y)
		b.dc.LineTo(p1.X, p1.Y)
		b.dc.LineTo(p2.X, p2.Y)
		b.dc.ClosePath()
	}
	b.fill(c, "triangles")
}

// DrawLineStrip strokes the polyline. Points are mapped through the matrix
// before stroking, so the width stays in device pixels.
func (b *Backend) DrawLineStrip(points []mapcanvas.Vec2, c mapcanvas.Color, t mapcanvas.Transform) {
	if len(points) < 2 {
		return
	}
	b.dc.SetTransform(gg.Identity())
	b.dc.MoveTo(t.ApplyXY(points[0].X, points[0].Y))
	for _, p := range points[1:] {
		b.dc.LineTo(t.ApplyXY(p.X, p.Y))
	}
	b.dc.SetLineWidth(b.LineWidth)
	b.dc.SetRGBA(c.R, c.G, c.B, c.A)
	if err := b.dc.Stroke(); err != nil {
		mapcanvas.Logger().Warn("ggbackend: stroke failed", "err", err)
	}
}

// FillRect fills the transformed rectangle.
func (b *Backend) FillRect(origin, size mapcanvas.Vec2, c mapcanvas.Color, t mapcanvas.Transform) {
	b.dc.SetTransform(Matrix(t))
	b.dc.DrawRectangle(origin.X, origin.Y, size.X, size.Y)
	b.fill(c, "rect")
}

// DrawImage blits img scaled to size. gg maps only the corners through the
// matrix, so rotation and skew are not honored for images.
func (b *Backend) DrawImage(img mapcanvas.Image, origin, size mapcanvas.Vec2, t mapcanvas.Transform) {
	gi, ok := img.(*Image)
	if !ok || gi.buf == nil {
		return
	}
	b.dc.SetTransform(Matrix(t))
	b.dc.DrawImageEx(gi.buf, gg.DrawImageOptions{
		X:             origin.X,
		Y:             origin.Y,
		DstWidth:      size.X,
		DstHeight:     size.Y,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// DrawString draws s with its top-left corner at the transformed origin.
// gg renders glyphs in device space, so the size is scaled by the
// transform's uniform scale factor and rotation is ignored.
func (b *Backend) DrawString(origin mapcanvas.Vec2, s string, fontSize float64, c mapcanvas.Color, t mapcanvas.Transform) {
	if b.source == nil {
		return
	}
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	size := fontSize * math.Sqrt(math.Abs(t.ScaleX*t.ScaleY-t.SkewX*t.SkewY))
	if size < 1 {
		return
	}
	face := b.face(size)
	p := t.Apply(origin)

	b.dc.SetTransform(gg.Identity())
	b.dc.SetFont(face)
	b.dc.SetRGBA(c.R, c.G, c.B, c.A)
	b.dc.DrawString(s, p.X, p.Y+face.Metrics().Ascent)
}

// EndFrame counts the frame and resets the context matrix.
func (b *Backend) EndFrame() {
	b.dc.SetTransform(gg.Identity())
	b.frames++
}

// Frames returns the number of frames ended so far.
func (b *Backend) Frames() uint64 {
	return b.frames
}

const defaultFontSize = 13

func (b *Backend) face(size float64) text.Face {
	size = math.Round(size*2) / 2
	if f, ok := b.faces[size]; ok {
		return f
	}
	f := b.source.Face(size)
	b.faces[size] = f
	return f
}

func (b *Backend) fill(c mapcanvas.Color, what string) {
	b.dc.SetRGBA(c.R, c.G, c.B, c.A)
	if err := b.dc.Fill(); err != nil {
		mapcanvas.Logger().Warn("ggbackend: fill failed", "shape", what, "err", err)
	}
}

// Matrix converts a mapcanvas transform to a gg.Matrix.
func Matrix(t mapcanvas.Transform) gg.Matrix {
	return gg.Matrix{
		A: t.ScaleX, B: t.SkewX, C: t.TranslateX,
		D: t.SkewY, E: t.ScaleY, F: t.TranslateY,
	}
}

func toRGBA(c mapcanvas.Color) gg.RGBA {
	return gg.RGBA2(c.R, c.G, c.B, c.A)
}
