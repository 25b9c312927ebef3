// Package config loads arbor scene files.
// A scene file is YAML describing sprites, alpha programs and the scale
// interpolators that connect them.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/phanxgames/arbor"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Config is a complete scene file.
type Config struct {
	// TPS is the simulated tick rate used for headless traces and the window.
	TPS int `json:"tps" yaml:"tps"`

	// Frames is how many frames a headless trace runs.
	Frames int `json:"frames" yaml:"frames"`

	// Window configures `arbor run`.
	Window WindowConfig `json:"window" yaml:"window"`

	// Alphas are named alpha programs referenced by interpolators.
	Alphas map[string]AlphaConfig `json:"alphas" yaml:"alphas"`

	// Sprites are solid-color quads attached to the scene root.
	Sprites []SpriteConfig `json:"sprites" yaml:"sprites"`

	// Interpolators animate sprites.
	Interpolators []InterpolatorConfig `json:"interpolators" yaml:"interpolators"`
}

// WindowConfig configures the ebiten window.
type WindowConfig struct {
	Title  string `json:"title" yaml:"title"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// AlphaConfig describes an arbor.Alpha.
type AlphaConfig struct {
	// LoopCount is the number of cycles; -1 loops forever.
	LoopCount int `json:"loop_count" yaml:"loop_count"`

	// Mode is "increasing" (default), "decreasing" or "both".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	Trigger    time.Duration `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	PhaseDelay time.Duration `json:"phase_delay,omitempty" yaml:"phase_delay,omitempty"`
	Increasing time.Duration `json:"increasing,omitempty" yaml:"increasing,omitempty"`
	AtOne      time.Duration `json:"at_one,omitempty" yaml:"at_one,omitempty"`
	Decreasing time.Duration `json:"decreasing,omitempty" yaml:"decreasing,omitempty"`
	AtZero     time.Duration `json:"at_zero,omitempty" yaml:"at_zero,omitempty"`

	// Ease names a gween easing function, e.g. "linear" or "inOutQuad".
	Ease string `json:"ease,omitempty" yaml:"ease,omitempty"`

	// Duplicate gives each cloned interpolator its own copy of this alpha.
	Duplicate bool `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`
}

// SpriteConfig describes a solid-color sprite.
type SpriteConfig struct {
	Name   string     `json:"name" yaml:"name"`
	X      float64    `json:"x" yaml:"x"`
	Y      float64    `json:"y" yaml:"y"`
	Width  float64    `json:"width" yaml:"width"`
	Height float64    `json:"height" yaml:"height"`
	Color  [4]float64 `json:"color" yaml:"color"`
}

// InterpolatorConfig describes a scale interpolator.
type InterpolatorConfig struct {
	Name     string     `json:"name" yaml:"name"`
	Target   string     `json:"target" yaml:"target"`
	Alpha    string     `json:"alpha" yaml:"alpha"`
	MinScale float64    `json:"min_scale" yaml:"min_scale"`
	MaxScale float64    `json:"max_scale" yaml:"max_scale"`
	Axis     AxisConfig `json:"axis" yaml:"axis"`

	// Copies clones the target+interpolator pair this many extra times,
	// each offset by Spacing on X.
	Copies  int     `json:"copies,omitempty" yaml:"copies,omitempty"`
	Spacing float64 `json:"spacing,omitempty" yaml:"spacing,omitempty"`
}

// AxisConfig is a decomposed axis transform:
// Translate(X, Y) * Rotate(Rotation) * Scale(ScaleX, ScaleY).
type AxisConfig struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	ScaleX   float64 `json:"scale_x" yaml:"scale_x"`
	ScaleY   float64 `json:"scale_y" yaml:"scale_y"`
}

// Transform builds the axis matrix. Zero scale factors are read as 1 so an
// omitted axis block is the identity.
func (a AxisConfig) Transform() arbor.Transform {
	sx, sy := a.ScaleX, a.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return arbor.TranslateTransform(a.X, a.Y).
		Mul(arbor.RotateTransform(a.Rotation)).
		Mul(arbor.Transform{sx, 0, 0, sy, 0, 0})
}

// Default returns a one-sprite pulsing scene.
func Default() *Config {
	return &Config{
		TPS:    60,
		Frames: 180,
		Window: WindowConfig{Title: "arbor", Width: 640, Height: 480},
		Alphas: map[string]AlphaConfig{
			"pulse": {
				LoopCount:  -1,
				Mode:       "both",
				Increasing: time.Second,
				AtOne:      250 * time.Millisecond,
				Decreasing: time.Second,
				AtZero:     250 * time.Millisecond,
				Ease:       "inOutQuad",
			},
		},
		Sprites: []SpriteConfig{
			{Name: "box", X: 320, Y: 240, Width: 64, Height: 64, Color: [4]float64{0.3, 0.7, 1, 1}},
		},
		Interpolators: []InterpolatorConfig{
			{Name: "grow", Target: "box", Alpha: "pulse", MinScale: 0.1, MaxScale: 1.0},
		},
	}
}

// Load reads and validates a scene file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills the clock and window defaults of Default for
// omitted fields, and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.TPS == 0 {
		cfg.TPS = 60
	}
	if cfg.Frames == 0 {
		cfg.Frames = 180
	}
	if cfg.Window.Width == 0 || cfg.Window.Height == 0 {
		cfg.Window.Width, cfg.Window.Height = 640, 480
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = "arbor"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks references between sections and value ranges. Every
// problem found is reported.
func (c *Config) Validate() error {
	var errs []error
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", c.Frames))
	}

	for _, name := range c.alphaNames() {
		a := c.Alphas[name]
		if _, err := a.mode(); err != nil {
			errs = append(errs, fmt.Errorf("alpha %q: %w", name, err))
		}
		if _, err := EaseFunc(a.Ease); err != nil {
			errs = append(errs, fmt.Errorf("alpha %q: %w", name, err))
		}
		if a.LoopCount < -1 {
			errs = append(errs, fmt.Errorf("alpha %q: loop_count must be -1 or more, got %d", name, a.LoopCount))
		}
	}

	sprites := make(map[string]bool, len(c.Sprites))
	for i, s := range c.Sprites {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("sprite %d: name is required", i))
			continue
		}
		if sprites[s.Name] {
			errs = append(errs, fmt.Errorf("sprite %q: duplicate name", s.Name))
		}
		sprites[s.Name] = true
	}

	for i, ic := range c.Interpolators {
		label := ic.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if !sprites[ic.Target] {
			errs = append(errs, fmt.Errorf("interpolator %s: unknown target %q", label, ic.Target))
		}
		if _, ok := c.Alphas[ic.Alpha]; !ok {
			errs = append(errs, fmt.Errorf("interpolator %s: unknown alpha %q", label, ic.Alpha))
		}
		if ic.Copies < 0 {
			errs = append(errs, fmt.Errorf("interpolator %s: copies must not be negative", label))
		}
		if _, err := ic.Axis.Transform().Invert(); err != nil {
			errs = append(errs, fmt.Errorf("interpolator %s: %w", label, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) alphaNames() []string {
	names := make([]string, 0, len(c.Alphas))
	for name := range c.Alphas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a AlphaConfig) mode() (arbor.AlphaMode, error) {
	switch strings.ToLower(a.Mode) {
	case "", "increasing":
		return arbor.AlphaIncreasing, nil
	case "decreasing":
		return arbor.AlphaDecreasing, nil
	case "both":
		return arbor.AlphaBoth, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", a.Mode)
	}
}

// Build returns the arbor.Alpha described by a.
func (a AlphaConfig) Build() (*arbor.Alpha, error) {
	mode, err := a.mode()
	if err != nil {
		return nil, err
	}
	fn, err := EaseFunc(a.Ease)
	if err != nil {
		return nil, err
	}
	return &arbor.Alpha{
		LoopCount:        a.LoopCount,
		Mode:             mode,
		TriggerTime:      a.Trigger,
		PhaseDelay:       a.PhaseDelay,
		Increasing:       a.Increasing,
		AtOne:            a.AtOne,
		Decreasing:       a.Decreasing,
		AtZero:           a.AtZero,
		Ease:             fn,
		DuplicateOnClone: a.Duplicate,
	}, nil
}

var easeFuncs = map[string]ease.TweenFunc{
	"inquad":      ease.InQuad,
	"outquad":     ease.OutQuad,
	"inoutquad":   ease.InOutQuad,
	"incubic":     ease.InCubic,
	"outcubic":    ease.OutCubic,
	"inoutcubic":  ease.InOutCubic,
	"insine":      ease.InSine,
	"outsine":     ease.OutSine,
	"inoutsine":   ease.InOutSine,
	"inexpo":      ease.InExpo,
	"outexpo":     ease.OutExpo,
	"inoutexpo":   ease.InOutExpo,
	"inback":      ease.InBack,
	"outback":     ease.OutBack,
	"outbounce":   ease.OutBounce,
	"outelastic":  ease.OutElastic,
	"inoutbounce": ease.InOutBounce,
}

// EaseFunc resolves an easing name (case-insensitive). "" and "linear" return
// nil, which arbor.Alpha treats as an exact linear ramp.
func EaseFunc(name string) (ease.TweenFunc, error) {
	key := strings.ToLower(name)
	if key == "" || key == "linear" {
		return nil, nil
	}
	fn, ok := easeFuncs[key]
	if !ok {
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	return fn, nil
}
