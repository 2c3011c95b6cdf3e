package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in each candidate directory.
const FileName = "config.yaml"

// Overrides carries command-line values that take priority over the file.
// Nil fields leave the loaded value alone.
type Overrides struct {
	Debug       bool
	LogFile     *string
	TexturePath *string
	Scale       *float64
	Speed       *float64
	Tilt        *float64
	Lighting    *bool
	Addr        *string
	FPS         *int
}

// Load loads configuration with priority: defaults < file < overrides.
// An explicit path must exist; otherwise the standard locations are
// searched and a missing file is not an error. The returned path is the
// file that was read, or where Save would write when none was found.
func Load(explicit string, o Overrides) (*Config, string, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", path, err)
		}
	} else {
		path = filepath.Join(ConfigDir(), FileName)
	}

	o.apply(cfg)
	cfg.Sanitize()
	return cfg, path, nil
}

// LoadFile reads path over the defaults without any overrides. A missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.Sanitize()
	return cfg, nil
}

func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != nil {
		cfg.Logging.LogFile = *o.LogFile
	}
	if o.TexturePath != nil {
		cfg.Globe.TexturePath = *o.TexturePath
	}
	if o.Scale != nil {
		cfg.Globe.Scale = *o.Scale
	}
	if o.Speed != nil {
		cfg.Globe.Speed = *o.Speed
	}
	if o.Tilt != nil {
		cfg.Globe.Tilt = *o.Tilt
	}
	if o.Lighting != nil {
		cfg.Globe.Lighting = *o.Lighting
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.FPS != nil {
		cfg.Server.FPS = *o.FPS
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "globe")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "globe")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "globe")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "globe")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// ResolveTexturePath returns configured if it exists, otherwise the first
// existing bundled location: ./textures, then textures next to the
// executable. When nothing exists it returns configured unchanged so the
// load error names the path the user asked for.
func ResolveTexturePath(configured string) string {
	if _, err := os.Stat(configured); err == nil {
		return configured
	}

	candidates := []string{"textures"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "textures"))
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return c
		}
	}
	return configured
}
