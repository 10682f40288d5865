package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benoitkugler/lasersvg/inkscape"
	"github.com/benoitkugler/lasersvg/svglaser"
	"github.com/kelseyhightower/envconfig"
)

// Renderers of the raster background
const (
	RendererBuiltin  = "builtin"  // rasterx, in process
	RendererInkscape = "inkscape" // external Inkscape (or ImageMagick)
)

// Config is read from the environment, with the LASERSVG_ prefix.
type Config struct {
	Flatness      float64       `envconfig:"FLATNESS" default:"0.01"`
	ImageDPI      float64       `envconfig:"IMAGE_DPI" default:"1000"`
	Rasterize     bool          `envconfig:"RASTERIZE" default:"true"`
	TextToPaths   bool          `envconfig:"TEXT_TO_PATHS" default:"false"`
	Layers        []string      `envconfig:"LAYERS"`
	Renderer      string        `envconfig:"RENDERER" default:"builtin"`
	InkscapePath  string        `envconfig:"INKSCAPE_PATH" default:"inkscape"`
	ConvertPath   string        `envconfig:"CONVERT_PATH" default:"/usr/bin/convert"`
	ToolTimeout   time.Duration `envconfig:"TOOL_TIMEOUT" default:"180s"`
	PixelsPerInch float64       `envconfig:"PXPI" default:"0"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the LASERSVG_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("lasersvg", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Renderer {
	case RendererBuiltin, RendererInkscape:
	default:
		return fmt.Errorf("invalid renderer %q (expected %s or %s)", c.Renderer, RendererBuiltin, RendererInkscape)
	}
	if c.Flatness <= 0 {
		return fmt.Errorf("invalid flatness %g", c.Flatness)
	}
	if c.ImageDPI <= 0 {
		return fmt.Errorf("invalid image DPI %g", c.ImageDPI)
	}
	if c.PixelsPerInch < 0 {
		return fmt.Errorf("invalid pixels per inch %g", c.PixelsPerInch)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ReaderConfig returns the settings of the extraction.
func (c *Config) ReaderConfig() svglaser.Config {
	out := svglaser.DefaultConfig()
	out.Flatness = c.Flatness
	out.ImageDPI = c.ImageDPI
	out.Rasterize = c.Rasterize
	out.TextToPaths = c.TextToPaths
	for _, l := range c.Layers {
		if l = strings.TrimSpace(l); l != "" {
			out.Layers = append(out.Layers, l)
		}
	}
	return out
}

// Runner returns the external tools runner.
func (c *Config) Runner(logger *slog.Logger) *inkscape.Runner {
	return inkscape.New(c.InkscapePath, c.ConvertPath, c.ToolTimeout, logger)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}
