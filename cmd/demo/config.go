package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	Vsync  bool   `yaml:"vsync"`
}

type Config struct {
	Window WindowConfig `yaml:"window"`
	// number of orbiting quads
	Instances  int        `yaml:"instances"`
	ClearColor [4]float32 `yaml:"clear_color"`
	// resolution of the offscreen scene relative to the window
	RenderScale  float64 `yaml:"render_scale"`
	Texture      string  `yaml:"texture"`
	ProgramCache string  `yaml:"program_cache"`
	DebugOutput  bool    `yaml:"debug_output"`
	LogLevel     string  `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 900,
			Title:  "Retained GL",
			Vsync:  true,
		},
		Instances:   64,
		ClearColor:  [4]float32{0.05, 0.05, 0.08, 1},
		RenderScale: 1,
		LogLevel:    "info",
	}
}

// LoadConfig reads YAML from r over cfg. Unknown keys are an error.
func LoadConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

func (cfg *Config) Validate() error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Instances < 0 {
		return fmt.Errorf("instances must not be negative, got %d", cfg.Instances)
	}
	if cfg.RenderScale <= 0 {
		return fmt.Errorf("render scale must be positive, got %g", cfg.RenderScale)
	}
	return nil
}

var Arguments struct {
	ConfigFile                 string
	EnableCompatibilityProfile bool
}

// ParseArguments builds the configuration from defaults, the optional config
// file and finally the flags that were set explicitly.
func ParseArguments(args []string) (Config, error) {
	cfg := DefaultConfig()

	var flags Config
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.StringVar(&Arguments.ConfigFile, "config", "", "path of a YAML config file")
	fs.BoolVar(&Arguments.EnableCompatibilityProfile, "enable-compatibility-profile", false, "")
	fs.IntVar(&flags.Window.Width, "width", 0, "window width")
	fs.IntVar(&flags.Window.Height, "height", 0, "window height")
	fs.StringVar(&flags.Window.Title, "title", "", "window title")
	fs.BoolVar(&flags.Window.Vsync, "vsync", false, "wait for vertical sync")
	fs.IntVar(&flags.Instances, "instances", 0, "number of orbiting quads")
	fs.Float64Var(&flags.RenderScale, "render-scale", 0, "offscreen resolution relative to the window")
	fs.StringVar(&flags.Texture, "texture", "", "image file used on the quads")
	fs.StringVar(&flags.ProgramCache, "program-cache", "", "directory for cached program binaries")
	fs.BoolVar(&flags.DebugOutput, "debug-output", false, "log driver debug messages")
	fs.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if Arguments.ConfigFile != "" {
		f, err := os.Open(Arguments.ConfigFile)
		if err != nil {
			return cfg, err
		}
		err = LoadConfig(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", Arguments.ConfigFile, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = flags.Window.Width
		case "height":
			cfg.Window.Height = flags.Window.Height
		case "title":
			cfg.Window.Title = flags.Window.Title
		case "vsync":
			cfg.Window.Vsync = flags.Window.Vsync
		case "instances":
			cfg.Instances = flags.Instances
		case "render-scale":
			cfg.RenderScale = flags.RenderScale
		case "texture":
			cfg.Texture = flags.Texture
		case "program-cache":
			cfg.ProgramCache = flags.ProgramCache
		case "debug-output":
			cfg.DebugOutput = flags.DebugOutput
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})
	return cfg, cfg.Validate()
}
