// Package config handles loading and saving globe settings.
package config

// Config holds all user-tunable settings.
type Config struct {
	Globe   GlobeConfig   `yaml:"globe"`
	UI      UIConfig      `yaml:"ui"`
	Theme   ThemeConfig   `yaml:"theme"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GlobeConfig holds the sphere animation parameters.
type GlobeConfig struct {
	Scale       float64 `yaml:"scale"`
	Speed       float64 `yaml:"speed"`
	Tilt        float64 `yaml:"tilt"` // degrees
	Lighting    bool    `yaml:"lighting"`
	TexturePath string  `yaml:"texture_path"`
}

// UIConfig holds terminal viewer settings.
type UIConfig struct {
	TargetFPS int  `yaml:"target_fps"`
	Stars     bool `yaml:"stars"`
	ShowHUD   bool `yaml:"show_hud"`
}

// ThemeConfig holds hex colours for the terminal viewer.
type ThemeConfig struct {
	TextPrimary   string   `yaml:"text_primary"`
	TextSecondary string   `yaml:"text_secondary"`
	TextAccent    string   `yaml:"text_accent"`
	Border        string   `yaml:"border"`
	Stars         []string `yaml:"stars"` // dim to brightest
	GlobeNight    string   `yaml:"globe_night"`
	GlobeDay      string   `yaml:"globe_day"`
}

// ServerConfig holds frame streaming settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	FPS    int    `yaml:"fps"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock values.
func Default() *Config {
	return &Config{
		Globe: GlobeConfig{
			Scale:       1.15,
			Speed:       1.0,
			Tilt:        23.5,
			Lighting:    false,
			TexturePath: "textures",
		},
		UI: UIConfig{
			TargetFPS: 60,
			Stars:     true,
			ShowHUD:   false,
		},
		Theme: ThemeConfig{
			TextPrimary:   "#ffffff",
			TextSecondary: "#c8c8c8",
			TextAccent:    "#6496ff",
			Border:        "#ffffff",
			Stars: []string{
				"#646478",
				"#9696b4",
				"#c8c8dc",
				"#e6e6fa",
				"#ffffff",
			},
			GlobeNight: "#28324b",
			GlobeDay:   "#e6f0ff",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			FPS:    15,
			Width:  80,
			Height: 40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Sanitize replaces out-of-range values that would stall or break the
// render loops with their defaults.
func (c *Config) Sanitize() {
	def := Default()
	if c.UI.TargetFPS <= 0 || c.UI.TargetFPS > 240 {
		c.UI.TargetFPS = def.UI.TargetFPS
	}
	if c.Server.FPS <= 0 || c.Server.FPS > 120 {
		c.Server.FPS = def.Server.FPS
	}
	if c.Server.Width <= 0 {
		c.Server.Width = def.Server.Width
	}
	if c.Server.Height <= 0 {
		c.Server.Height = def.Server.Height
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Globe.TexturePath == "" {
		c.Globe.TexturePath = def.Globe.TexturePath
	}
}
