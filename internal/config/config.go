package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	MinVertices     = 4
	MaxVertices     = 1 << 20
	DefaultVertices = 10000
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the on-disk configuration of a mini2d program.
type Config struct {
	Window   Window   `yaml:"window"`
	Renderer Renderer `yaml:"renderer"`
	Frame    Frame    `yaml:"frame"`
	Assets   Assets   `yaml:"assets"`
}

type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	VSync     bool   `yaml:"vsync"`
}

// Renderer holds the batch renderer settings.
type Renderer struct {
	// MaxVertices is the vertex capacity of one batch; the index capacity
	// is derived from it.
	MaxVertices int   `yaml:"max_vertices"`
	ClearColor  Color `yaml:"clear_color"`
	// Optional replacement for the built-in shader.
	VertexShader   string `yaml:"vertex_shader,omitempty"`
	FragmentShader string `yaml:"fragment_shader,omitempty"`
}

type Frame struct {
	FPSLimit      int      `yaml:"fps_limit"` // 0 = unlimited
	StatsInterval Duration `yaml:"stats_interval"`
}

type Assets struct {
	Texture  string  `yaml:"texture,omitempty"`
	Font     string  `yaml:"font,omitempty"` // empty = embedded Go Regular
	FontSize float64 `yaml:"font_size"`
	FlipY    bool    `yaml:"flip_y"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:     "mini2d",
			Width:     900,
			Height:    600,
			Resizable: true,
			VSync:     true,
		},
		Renderer: Renderer{
			MaxVertices: DefaultVertices,
			ClearColor:  Color{R: 30, G: 30, B: 36, A: 255},
		},
		Frame: Frame{
			FPSLimit:      0,
			StatsInterval: Duration(time.Second),
		},
		Assets: Assets{FontSize: 18},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate clamps capacities into range and rejects unusable values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Renderer.MaxVertices < MinVertices {
		c.Renderer.MaxVertices = MinVertices
	}
	if c.Renderer.MaxVertices > MaxVertices {
		c.Renderer.MaxVertices = MaxVertices
	}
	// Whole quads only.
	c.Renderer.MaxVertices -= c.Renderer.MaxVertices % 4
	if (c.Renderer.VertexShader == "") != (c.Renderer.FragmentShader == "") {
		return fmt.Errorf("%w: vertex_shader and fragment_shader must be set together", ErrInvalidConfig)
	}
	if c.Frame.FPSLimit < 0 {
		c.Frame.FPSLimit = 0
	}
	if c.Assets.FontSize <= 0 {
		c.Assets.FontSize = 18
	}
	return nil
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Color is an 8-bit RGBA color written as "#rrggbb", "#rrggbbaa" or a
// list of 3 or 4 integers.
type Color color.RGBA

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var parts []int
		if err := value.Decode(&parts); err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		if len(parts) != 3 && len(parts) != 4 {
			return fmt.Errorf("invalid color: want 3 or 4 components, got %d", len(parts))
		}
		rgba := [4]uint8{0, 0, 0, 255}
		for i, p := range parts {
			if p < 0 || p > 255 {
				return fmt.Errorf("invalid color: component %d out of range", p)
			}
			rgba[i] = uint8(p)
		}
		*c = Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

func (c Color) RGBA() color.RGBA { return color.RGBA(c) }

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
