// Package ebitenbackend executes mapcanvas draw commands on an Ebitengine
// image, usually the screen passed to ebiten.Game.Draw.
package ebitenbackend

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/mapcanvas"
)

// Image wraps an *ebiten.Image so it satisfies mapcanvas.Image.
type Image struct {
	img *ebiten.Image
}

// Ebiten returns the wrapped image.
func (i *Image) Ebiten() *ebiten.Image { return i.img }

// Width returns 0 once the image has been released.
func (i *Image) Width() int {
	if i.img == nil {
		return 0
	}
	return i.img.Bounds().Dx()
}

// Height returns 0 once the image has been released.
func (i *Image) Height() int {
	if i.img == nil {
		return 0
	}
	return i.img.Bounds().Dy()
}

// Backend draws onto a target *ebiten.Image. Call SetTarget at the start of
// every Draw before any command executes.
type Backend struct {
	target *ebiten.Image

	// LineWidth is the stroke width of lines and outlines in pixels.
	LineWidth float32
	// AntiAlias smooths strokes.
	AntiAlias bool

	verts []ebiten.Vertex
	fonts *faceCache

	frames uint64
}

var _ mapcanvas.Backend = (*Backend)(nil)

// New creates a backend with 1px anti-aliased strokes and no target.
func New() *Backend {
	return &Backend{
		LineWidth: 1,
		AntiAlias: true,
		fonts:     newFaceCache(),
	}
}

// SetTarget sets the image commands are drawn to.
func (b *Backend) SetTarget(target *ebiten.Image) {
	b.target = target
}

// Target returns the current target image.
func (b *Backend) Target() *ebiten.Image {
	return b.target
}

// ViewportSize returns the target's size, or 0x0 without a target.
func (b *Backend) ViewportSize() (int, int) {
	if b.target == nil {
		return 0, 0
	}
	bounds := b.target.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// LoadImage decodes path and uploads it to the GPU.
func (b *Backend) LoadImage(path string) (mapcanvas.Image, error) {
	img, err := mapcanvas.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return &Image{img: ebiten.NewImageFromImage(img)}, nil
}

// ReleaseImage frees the GPU memory of an image returned by LoadImage.
func (b *Backend) ReleaseImage(img mapcanvas.Image) {
	if ei, ok := img.(*Image); ok && ei.img != nil {
		ei.img.Deallocate()
		ei.img = nil
	}
}

// DrawTriangles transforms the vertices on the CPU and submits them with the
// white pixel as source, so the whole mesh takes the flat color c.
func (b *Backend) DrawTriangles(vertices []mapcanvas.Vec2, indices []uint16, c mapcanvas.Color, t mapcanvas.Transform) {
	if b.target == nil || len(indices) == 0 {
		return
	}
	b.verts = transformVertices(b.verts[:0], vertices, t, c)
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = b.AntiAlias
	b.target.DrawTriangles(b.verts, indices, whitePixel(), &op)
}

// DrawLineStrip strokes consecutive point pairs after transforming them, so
// stroke width stays in screen pixels regardless of zoom.
func (b *Backend) DrawLineStrip(points []mapcanvas.Vec2, c mapcanvas.Color, t mapcanvas.Transform) {
	if b.target == nil || len(points) < 2 {
		return
	}
	prev := t.Apply(points[0])
	for _, p := range points[1:] {
		cur := t.Apply(p)
		vector.StrokeLine(b.target,
			float32(prev.X), float32(prev.Y), float32(cur.X), float32(cur.Y),
			b.LineWidth, c, b.AntiAlias)
		prev = cur
	}
}

// FillRect scales the white pixel to the rect and tints it.
func (b *Backend) FillRect(origin, size mapcanvas.Vec2, c mapcanvas.Color, t mapcanvas.Transform) {
	if b.target == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(size.X, size.Y)
	op.GeoM.Translate(origin.X, origin.Y)
	op.GeoM.Concat(GeoM(t))
	op.ColorScale.ScaleWithColor(c)
	b.target.DrawImage(whitePixel(), &op)
}

// DrawImage draws img stretched to size.
func (b *Backend) DrawImage(img mapcanvas.Image, origin, size mapcanvas.Vec2, t mapcanvas.Transform) {
	ei, ok := img.(*Image)
	if b.target == nil || !ok || ei.img == nil {
		return
	}
	w, h := ei.Width(), ei.Height()
	if w == 0 || h == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(size.X/float64(w), size.Y/float64(h))
	op.GeoM.Translate(origin.X, origin.Y)
	op.GeoM.Concat(GeoM(t))
	op.Filter = ebiten.FilterLinear
	b.target.DrawImage(ei.img, &op)
}

// DrawString draws text with its top-left corner at origin. fontSize <= 0
// selects the fixed 7x13 bitmap face.
func (b *Backend) DrawString(origin mapcanvas.Vec2, s string, fontSize float64, c mapcanvas.Color, t mapcanvas.Transform) {
	if b.target == nil {
		return
	}
	b.fonts.draw(b.target, origin, s, fontSize, c, GeoM(t))
}

// EndFrame counts the frame and truncates the vertex scratch buffer.
func (b *Backend) EndFrame() {
	b.frames++
	b.verts = b.verts[:0]
}

// Frames returns the number of frames ended so far.
func (b *Backend) Frames() uint64 {
	return b.frames
}

// GeoM converts a mapcanvas transform to an ebiten.GeoM.
func GeoM(t mapcanvas.Transform) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t.ScaleX)
	m.SetElement(1, 0, t.SkewY)
	m.SetElement(0, 1, t.SkewX)
	m.SetElement(1, 1, t.ScaleY)
	m.SetElement(0, 2, t.TranslateX)
	m.SetElement(1, 2, t.TranslateY)
	return m
}

// transformVertices appends src mapped through t to dst, colored with the
// premultiplied c and sampling the center of the white pixel.
func transformVertices(dst []ebiten.Vertex, src []mapcanvas.Vec2, t mapcanvas.Transform, c mapcanvas.Color) []ebiten.Vertex {
	cr := float32(c.R * c.A)
	cg := float32(c.G * c.A)
	cb := float32(c.B * c.A)
	ca := float32(c.A)
	for _, p := range src {
		x, y := t.ApplyXY(p.X, p.Y)
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	return dst
}

var whitePixelImage *ebiten.Image

// whitePixel returns a lazily created 1x1 white image. Backends are driven
// from the game loop only, so no locking.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
