package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Chdir(dir)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Globe.Scale != 1.15 || cfg.Globe.Speed != 1.0 || cfg.Globe.Tilt != 23.5 {
		t.Errorf("globe defaults = %+v", cfg.Globe)
	}
	if cfg.Globe.Lighting {
		t.Error("lighting should be off by default")
	}
	if cfg.Globe.TexturePath != "textures" {
		t.Errorf("texture path = %q", cfg.Globe.TexturePath)
	}
	if cfg.UI.TargetFPS != 60 || !cfg.UI.Stars {
		t.Errorf("ui defaults = %+v", cfg.UI)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.FPS != 15 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if len(cfg.Theme.Stars) != 5 {
		t.Errorf("expected 5 star colours, got %d", len(cfg.Theme.Stars))
	}
	if cfg.Logging.Level != "info" || cfg.Logging.LogFile != "" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")

	yamlContent := `
globe:
  scale: 0.8
  lighting: true
  texture_path: /srv/earth
ui:
  target_fps: 30
server:
  addr: "127.0.0.1:9000"
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}

	if cfg.Globe.Scale != 0.8 || !cfg.Globe.Lighting || cfg.Globe.TexturePath != "/srv/earth" {
		t.Errorf("globe = %+v", cfg.Globe)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Globe.Tilt != 23.5 || cfg.Globe.Speed != 1.0 {
		t.Errorf("tilt/speed = %v/%v, want defaults", cfg.Globe.Tilt, cfg.Globe.Speed)
	}
	if cfg.UI.TargetFPS != 30 {
		t.Errorf("fps = %d", cfg.UI.TargetFPS)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.Width != 80 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nope.yaml")

	_, _, err := Load(path, Overrides{})
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the path", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("globe: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path, Overrides{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Globe.Scale != Default().Globe.Scale {
		t.Errorf("missing file scale = %v", cfg.Globe.Scale)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("globe:\n  speed: 2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Globe.Speed != 2.5 || cfg.Logging.Level != "info" {
		t.Errorf("loaded %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("globe: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)

	cfg, used, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Globe.Scale != Default().Globe.Scale {
		t.Errorf("scale = %v", cfg.Globe.Scale)
	}
	if used != filepath.Join(ConfigDir(), FileName) {
		t.Errorf("used = %q, want default save location", used)
	}
}

func TestLoadFindsWorkingDirFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("globe:\n  speed: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Globe.Speed != 3 {
		t.Errorf("speed = %v, want 3", cfg.Globe.Speed)
	}
}

func TestOverrides(t *testing.T) {
	isolate(t)

	scale, lighting, tex, fps := 2.0, true, "/tmp/tex", 5
	cfg, _, err := Load("", Overrides{
		Debug:       true,
		Scale:       &scale,
		Lighting:    &lighting,
		TexturePath: &tex,
		FPS:         &fps,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Globe.Scale != 2 || !cfg.Globe.Lighting || cfg.Globe.TexturePath != tex {
		t.Errorf("globe = %+v", cfg.Globe)
	}
	if cfg.Server.FPS != 5 {
		t.Errorf("server fps = %d", cfg.Server.FPS)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.UI.TargetFPS = 0
	cfg.Server.FPS = -3
	cfg.Server.Width = 0
	cfg.Server.Addr = ""
	cfg.Globe.TexturePath = ""
	cfg.Sanitize()

	def := Default()
	if cfg.UI.TargetFPS != def.UI.TargetFPS || cfg.Server.FPS != def.Server.FPS {
		t.Errorf("fps not restored: ui=%d server=%d", cfg.UI.TargetFPS, cfg.Server.FPS)
	}
	if cfg.Server.Width != def.Server.Width || cfg.Server.Addr != def.Server.Addr {
		t.Errorf("server not restored: %+v", cfg.Server)
	}
	if cfg.Globe.TexturePath != def.Globe.TexturePath {
		t.Errorf("texture path = %q", cfg.Globe.TexturePath)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Globe.Scale = 1.5
	cfg.Globe.Lighting = true
	cfg.Theme.TextAccent = "#ff8800"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, _, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Globe.Scale != 1.5 || !loaded.Globe.Lighting {
		t.Errorf("globe = %+v", loaded.Globe)
	}
	if loaded.Theme.TextAccent != "#ff8800" {
		t.Errorf("accent = %q", loaded.Theme.TextAccent)
	}
}

func TestSaveUsesConfigDir(t *testing.T) {
	isolate(t)

	if err := Default().Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ConfigDir(), FileName)); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestResolveTexturePath(t *testing.T) {
	dir := isolate(t)

	custom := filepath.Join(dir, "mytex")
	if err := os.Mkdir(custom, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := ResolveTexturePath(custom); got != custom {
		t.Errorf("existing path = %q, want %q", got, custom)
	}

	missing := filepath.Join(dir, "missing")
	if got := ResolveTexturePath(missing); got != missing {
		t.Errorf("no fallback available: got %q, want %q", got, missing)
	}

	if err := os.Mkdir(filepath.Join(dir, "textures"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := ResolveTexturePath(missing); got != "textures" {
		t.Errorf("fallback = %q, want textures", got)
	}
}
