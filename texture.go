package mapcanvas

import (
	"path/filepath"
)

// Texture is a handle to a decoded bitmap. The TextureCache that returned it
// owns the underlying Image and releases it on ClearTextureCache or Close.
//
// A Texture whose load failed is empty: it reports zero size and drawing it
// is a no-op. A nil *Texture behaves like an empty one.
type Texture struct {
	path  string
	image Image
}

// Path returns the resolved file path the texture was loaded from.
func (t *Texture) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Image returns the backend image, or nil for an empty texture.
func (t *Texture) Image() Image {
	if t == nil {
		return nil
	}
	return t.image
}

// Empty reports whether the texture has no drawable image.
func (t *Texture) Empty() bool {
	return t == nil || t.image == nil
}

// Width returns the image width in pixels, or 0 if empty.
func (t *Texture) Width() int {
	if t.Empty() {
		return 0
	}
	return t.image.Width()
}

// Height returns the image height in pixels, or 0 if empty.
func (t *Texture) Height() int {
	if t.Empty() {
		return 0
	}
	return t.image.Height()
}

// textureEntry is a cache slot. Failed loads are cached too, so a broken
// asset is read from disk once per cache generation.
type textureEntry struct {
	tex *Texture
	err error
}

// TextureCache maps resolved file paths to textures. Keys are unique; the
// cache grows until Clear is called. Not safe for concurrent use.
type TextureCache struct {
	root    string
	loader  ImageLoader
	entries map[string]textureEntry

	hits   int
	misses int
}

// NewTextureCache creates a cache resolving relative paths against root and
// decoding through loader.
func NewTextureCache(root string, loader ImageLoader) *TextureCache {
	return &TextureCache{
		root:    root,
		loader:  loader,
		entries: make(map[string]textureEntry),
	}
}

// Root returns the asset root relative paths are resolved against.
func (c *TextureCache) Root() string {
	return c.root
}

// Resolve joins rel onto the asset root. Slash-separated paths are accepted
// on every platform.
func (c *TextureCache) Resolve(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

// Load returns the cached texture for rel, decoding it on first use.
//
// If decoding fails, Load returns an empty (non-nil) texture and a
// *LoadError. Both are cached: later calls return the same handle and error
// without retrying until the cache is cleared.
func (c *TextureCache) Load(rel string) (*Texture, error) {
	path := c.Resolve(rel)
	if e, ok := c.entries[path]; ok {
		c.hits++
		return e.tex, e.err
	}
	c.misses++

	tex := &Texture{path: path}
	img, err := c.loader.LoadImage(path)
	if err != nil {
		lerr := &LoadError{Path: path, Err: err}
		c.entries[path] = textureEntry{tex: tex, err: lerr}
		Logger().Warn("texture load failed", "path", path, "err", err)
		return tex, lerr
	}
	tex.image = img
	c.entries[path] = textureEntry{tex: tex}
	Logger().Debug("texture loaded", "path", path, "width", img.Width(), "height", img.Height())
	return tex, nil
}

// Len returns the number of cached paths, failed loads included.
func (c *TextureCache) Len() int {
	return len(c.entries)
}

// Stats returns the number of cache hits and misses since creation.
func (c *TextureCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// evict empties the cache and returns the textures that held an image. The
// caller is responsible for releasing them.
func (c *TextureCache) evict() []*Texture {
	var out []*Texture
	for path, e := range c.entries {
		if !e.tex.Empty() {
			out = append(out, e.tex)
		}
		delete(c.entries, path)
	}
	return out
}

// Clear evicts every entry and releases its image immediately. Handles
// previously returned become empty.
func (c *TextureCache) Clear() {
	for _, tex := range c.evict() {
		c.release(tex)
	}
}

// release frees tex's image and marks the handle empty.
func (c *TextureCache) release(tex *Texture) {
	if tex.image == nil {
		return
	}
	c.loader.ReleaseImage(tex.image)
	tex.image = nil
}
