package viewer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/mapcanvas"
)

// screenshots collects capture requests made during Update and writes them
// at the end of the next Draw.
type screenshots struct {
	dir   string
	queue []string
	now   func() time.Time
}

func newScreenshots(dir string) *screenshots {
	if dir == "" {
		dir = "screenshots"
	}
	return &screenshots{dir: dir, now: time.Now}
}

// request queues a labeled capture.
func (s *screenshots) request(label string) {
	s.queue = append(s.queue, label)
}

// flush captures screen once for every queued label and returns the paths
// written.
func (s *screenshots) flush(screen *ebiten.Image) []string {
	if len(s.queue) == 0 {
		return nil
	}
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	return s.write(unpremultiply(pixels, w, h))
}

func (s *screenshots) write(img *image.NRGBA) []string {
	defer func() { s.queue = s.queue[:0] }()

	log := mapcanvas.Logger()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Warn("viewer: screenshot mkdir failed", "dir", s.dir, "err", err)
		return nil
	}

	stamp := s.now().Format("20060102_150405")
	var written []string
	for _, label := range s.queue {
		path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			log.Warn("viewer: screenshot failed", "err", err)
			continue
		}
		log.Info("viewer: screenshot saved", "path", path)
		written = append(written, path)
	}
	return written
}

// unpremultiply converts ebiten's premultiplied RGBA pixels to straight
// alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores. Empty labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
