package ebitenbackend

import (
	"bytes"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/mapcanvas"
)

// faceCache holds one Go Regular face per requested pixel size plus the
// bitmap fallback face.
type faceCache struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	bitmap text.Face
}

func newFaceCache() *faceCache {
	fc := &faceCache{
		faces:  make(map[float64]*text.GoTextFace),
		bitmap: text.NewGoXFace(basicfont.Face7x13),
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		mapcanvas.Logger().Warn("ebitenbackend: parse Go Regular failed, using bitmap face", "err", err)
		return fc
	}
	fc.source = src
	return fc
}

// face returns the face for size. Sizes are rounded to half pixels so a
// zooming camera does not grow the cache without bound.
func (fc *faceCache) face(size float64) text.Face {
	if size <= 0 || fc.source == nil {
		return fc.bitmap
	}
	size = math.Round(size*2) / 2
	if f, ok := fc.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: fc.source, Size: size}
	fc.faces[size] = f
	return f
}

func (fc *faceCache) draw(dst *ebiten.Image, origin mapcanvas.Vec2, s string, size float64, c mapcanvas.Color, geoM ebiten.GeoM) {
	f := fc.face(size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(origin.X, origin.Y)
	op.GeoM.Concat(geoM)
	op.ColorScale.ScaleWithColor(c)
	if gf, ok := f.(*text.GoTextFace); ok {
		m := gf.Metrics()
		op.LineSpacing = m.HAscent + m.HDescent + m.HLineGap
	} else {
		op.LineSpacing = 13
	}
	text.Draw(dst, s, f, op)
}
