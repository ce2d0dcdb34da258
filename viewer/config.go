package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/mapcanvas"
)

// ErrUnknownConfigFormat is returned by LoadConfig for files that are not
// .yaml, .yml or .toml.
var ErrUnknownConfigFormat = errors.New("viewer: unknown config format")

// WindowConfig describes the desktop window.
type WindowConfig struct {
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	Title     string `yaml:"title" toml:"title"`
	Resizable bool   `yaml:"resizable" toml:"resizable"`
}

// CameraConfig tunes camera input. Zero values select mapcanvas defaults.
type CameraConfig struct {
	ZoomRate float64 `yaml:"zoom_rate" toml:"zoom_rate"`
	MinZoom  float64 `yaml:"min_zoom" toml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom" toml:"max_zoom"`
	// ResetSeconds is the duration of the animated reset. Zero snaps.
	ResetSeconds float64 `yaml:"reset_seconds" toml:"reset_seconds"`
}

// Config holds viewer settings. Start from DefaultConfig; LoadConfig decodes
// a file over the defaults, so omitted keys keep their default values.
type Config struct {
	// AssetRoot is the game install directory.
	AssetRoot string `yaml:"asset_root" toml:"asset_root"`
	// ArtDir is the texture directory under AssetRoot.
	ArtDir string `yaml:"art_dir" toml:"art_dir"`

	Window WindowConfig `yaml:"window" toml:"window"`
	Camera CameraConfig `yaml:"camera" toml:"camera"`

	// ClearColor is "#rrggbb", "#rrggbbaa" or a CSS color name.
	ClearColor string `yaml:"clear_color" toml:"clear_color"`

	MultiColorLineOffset float64 `yaml:"multi_color_line_offset" toml:"multi_color_line_offset"`

	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
	// HotReload clears the texture cache when files under the art dir change.
	HotReload bool `yaml:"hot_reload" toml:"hot_reload"`
	// ShowFPS draws the FPS/camera overlay.
	ShowFPS bool `yaml:"show_fps" toml:"show_fps"`
	// Debug enables per-frame canvas stats at debug log level.
	Debug bool `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		AssetRoot: ".",
		ArtDir:    "mapArt",
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "mapcanvas",
			Resizable: true,
		},
		Camera: CameraConfig{
			ZoomRate:     mapcanvas.DefaultZoomRate,
			MinZoom:      mapcanvas.MinZoom,
			MaxZoom:      mapcanvas.MaxZoom,
			ResetSeconds: 0.4,
		},
		ClearColor:           "black",
		MultiColorLineOffset: mapcanvas.DefaultMultiColorLineOffset,
		ScreenshotDir:        "screenshots",
	}
}

// LoadConfig reads path over DefaultConfig. The format follows the file
// extension. Unknown keys are an error in YAML and logged in TOML.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("viewer: read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("viewer: decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("viewer: decode %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			mapcanvas.Logger().Warn("viewer: unknown config key", "path", path, "key", key.String())
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnknownConfigFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	mapcanvas.Logger().Info("viewer: config loaded", "path", path)
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("viewer: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.MinZoom < 0 || c.Camera.MaxZoom < 0 {
		return fmt.Errorf("viewer: zoom limits must not be negative")
	}
	if c.Camera.MinZoom > 0 && c.Camera.MaxZoom > 0 && c.Camera.MinZoom > c.Camera.MaxZoom {
		return fmt.Errorf("viewer: min_zoom %v exceeds max_zoom %v", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Camera.ResetSeconds < 0 {
		return fmt.Errorf("viewer: reset_seconds must not be negative")
	}
	if _, err := ParseColor(c.ClearColor); err != nil {
		return err
	}
	return nil
}

// ArtRoot returns the directory textures are resolved against.
func (c Config) ArtRoot() string {
	return filepath.Join(c.AssetRoot, c.ArtDir)
}

// CanvasConfig derives the canvas settings.
func (c Config) CanvasConfig() mapcanvas.CanvasConfig {
	return mapcanvas.CanvasConfig{
		AssetRoot:            c.ArtRoot(),
		MultiColorLineOffset: c.MultiColorLineOffset,
		Debug:                c.Debug,
	}
}

// ParseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or a CSS color name.
// The empty string is black.
func ParseColor(s string) (mapcanvas.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return mapcanvas.Color{A: 1}, nil
	}
	if !strings.HasPrefix(s, "#") {
		named, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return mapcanvas.Color{}, fmt.Errorf("viewer: unknown color %q", s)
		}
		return mapcanvas.ColorRGBA8(named.R, named.G, named.B, named.A), nil
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return mapcanvas.Color{}, fmt.Errorf("viewer: bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mapcanvas.Color{}, fmt.Errorf("viewer: bad hex color %q: %w", s, err)
	}
	return mapcanvas.ColorRGBA8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
