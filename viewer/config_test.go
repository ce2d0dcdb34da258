package viewer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/mapcanvas"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
	if cfg.ArtDir != "mapArt" {
		t.Errorf("ArtDir = %q, want mapArt", cfg.ArtDir)
	}
	if cfg.Camera.MinZoom != mapcanvas.MinZoom || cfg.Camera.MaxZoom != mapcanvas.MaxZoom {
		t.Errorf("zoom limits = [%v, %v]", cfg.Camera.MinZoom, cfg.Camera.MaxZoom)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "viewer.yaml", `
asset_root: /games/brawl
window:
  width: 800
  height: 600
camera:
  max_zoom: 4
clear_color: "#102030"
hot_reload: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AssetRoot != "/games/brawl" {
		t.Errorf("AssetRoot = %q", cfg.AssetRoot)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %dx%d, want 800x600", cfg.Window.Width, cfg.Window.Height)
	}
	// Keys left out keep their defaults.
	if cfg.Window.Title != "mapcanvas" || !cfg.Window.Resizable {
		t.Errorf("window defaults lost: %+v", cfg.Window)
	}
	if cfg.Camera.MaxZoom != 4 || cfg.Camera.MinZoom != mapcanvas.MinZoom {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if !cfg.HotReload {
		t.Error("HotReload = false, want true")
	}
	if got := cfg.ArtRoot(); got != filepath.Join("/games/brawl", "mapArt") {
		t.Errorf("ArtRoot = %q", got)
	}
}

func TestLoadConfigYAMLUnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "viewer.yml", "zoom_speed: 3\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unknown YAML key")
	}
}

func TestLoadConfigEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "viewer.yaml", "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("empty file should yield DefaultConfig")
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "viewer.toml", `
asset_root = "C:/Brawlhalla"
art_dir = "art"
multi_color_line_offset = 2.5
debug = true

[window]
title = "maps"

[camera]
zoom_rate = 0.01
reset_seconds = 0.0
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ArtDir != "art" || cfg.MultiColorLineOffset != 2.5 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Window.Title != "maps" || cfg.Window.Width != 1280 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Camera.ZoomRate != 0.01 || cfg.Camera.ResetSeconds != 0 {
		t.Errorf("camera = %+v", cfg.Camera)
	}

	cc := cfg.CanvasConfig()
	if cc.AssetRoot != filepath.Join("C:/Brawlhalla", "art") || cc.MultiColorLineOffset != 2.5 || !cc.Debug {
		t.Errorf("CanvasConfig = %+v", cc)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}

	_, err = LoadConfig(writeFile(t, dir, "viewer.json", "{}"))
	if !errors.Is(err, ErrUnknownConfigFormat) {
		t.Errorf("json err = %v, want ErrUnknownConfigFormat", err)
	}

	_, err = LoadConfig(writeFile(t, dir, "bad.toml", "window = [\n"))
	if err == nil {
		t.Error("expected TOML syntax error")
	}

	_, err = LoadConfig(writeFile(t, dir, "bad-zoom.yaml", "camera:\n  min_zoom: 5\n  max_zoom: 2\n"))
	if err == nil {
		t.Error("expected min > max error")
	}

	_, err = LoadConfig(writeFile(t, dir, "bad-color.yaml", "clear_color: notacolor\n"))
	if err == nil {
		t.Error("expected bad color error")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want mapcanvas.Color
	}{
		{"", mapcanvas.Color{A: 1}},
		{"#ff0000", mapcanvas.Color{R: 1, A: 1}},
		{"#0f0", mapcanvas.Color{G: 1, A: 1}},
		{"#0000ff00", mapcanvas.Color{B: 1}},
		{"white", mapcanvas.Color{R: 1, G: 1, B: 1, A: 1}},
		{"Black", mapcanvas.Color{A: 1}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"#12", "#gggggg", "ultraviolet"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}
