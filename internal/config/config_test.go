package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Render.FigureWidth != 960 {
		t.Errorf("expected figure_width 960, got %d", cfg.Render.FigureWidth)
	}
	if cfg.Render.Shape != "rect" {
		t.Errorf("expected shape rect, got %s", cfg.Render.Shape)
	}
	if cfg.Render.Palette != "fixed" {
		t.Errorf("expected palette fixed, got %s", cfg.Render.Palette)
	}
	if cfg.Serve.Addr != ":8765" {
		t.Errorf("expected addr :8765, got %s", cfg.Serve.Addr)
	}
	if cfg.Serve.MaxUploadBytes != 8<<20 {
		t.Errorf("expected max_upload_bytes %d, got %d", 8<<20, cfg.Serve.MaxUploadBytes)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestMerge_LoadedTakesPrecedence(t *testing.T) {
	loaded := &Config{
		Render: RenderConfig{Shape: "oval"},
		Serve:  ServeConfig{Addr: ":9000"},
	}

	merged := Merge(loaded, DefaultConfig())

	if merged.Render.Shape != "oval" {
		t.Errorf("expected loaded shape oval, got %s", merged.Render.Shape)
	}
	if merged.Serve.Addr != ":9000" {
		t.Errorf("expected loaded addr :9000, got %s", merged.Serve.Addr)
	}
	// Unset fields fall back to defaults
	if merged.Render.FigureWidth != 960 {
		t.Errorf("expected default figure_width 960, got %d", merged.Render.FigureWidth)
	}
	if merged.Render.Palette != "fixed" {
		t.Errorf("expected default palette, got %s", merged.Render.Palette)
	}
	if merged.Output.Format != "yaml" {
		t.Errorf("expected default format, got %s", merged.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Render.FigureWidth = -1 }, true},
		{"bad shape", func(c *Config) { c.Render.Shape = "triangle" }, true},
		{"bad palette", func(c *Config) { c.Render.Palette = "rainbow" }, true},
		{"empty addr", func(c *Config) { c.Serve.Addr = "" }, true},
		{"zero upload limit", func(c *Config) { c.Serve.MaxUploadBytes = 0 }, true},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Render.FigureWidth != 960 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath_PartialFileMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "render:\n  shape: oval\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Render.Shape != "oval" {
		t.Errorf("expected shape oval, got %s", cfg.Render.Shape)
	}
	if cfg.Serve.Addr != ":8765" {
		t.Errorf("expected default addr, got %s", cfg.Serve.Addr)
	}
}

func TestLoadFromPath_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "render:\n  shape: triangle\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected validation error for bad shape")
	}
}

func TestFindConfigDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigDir(nested)
	if err != nil {
		t.Fatalf("FindConfigDir failed: %v", err)
	}
	if found != configDir {
		t.Errorf("expected %s, got %s", configDir, found)
	}
}

func TestSaveDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveDefault(dir)
	if err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if cfg.Render.FigureWidth != 960 {
		t.Errorf("expected saved defaults to load, got %+v", cfg)
	}

	// Second save must refuse to overwrite
	if _, err := SaveDefault(dir); err == nil {
		t.Error("expected error when config already exists")
	}
}
