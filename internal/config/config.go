// Package config loads and validates scenario descriptions: world
// parameters plus the initial body set.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/boxsim/internal/phys"
	"github.com/san-kum/boxsim/internal/vec"
)

const (
	DefaultDuration = 5.0
	DefaultStep     = 1.0 / 30
)

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) Vec() vec.Vec { return vec.Vec{X: v.X, Y: v.Y, Z: v.Z} }

type BodyConfig struct {
	Position Vec3    `yaml:"position"`
	Velocity Vec3    `yaml:"velocity"`
	Extents  Vec3    `yaml:"extents"`
	Gravity  bool    `yaml:"gravity"`
	Static   bool    `yaml:"static"`
	Bounce   float64 `yaml:"bounce"`
	Slide    float64 `yaml:"slide"`
	Dim      int     `yaml:"dim"`
}

type Config struct {
	Name     string       `yaml:"name"`
	Duration float64      `yaml:"duration"`
	Step     float64      `yaml:"step"`
	Relax    int          `yaml:"relax_iterations"`
	Gravity  *Vec3        `yaml:"gravity"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "drop",
		Duration: DefaultDuration,
		Step:     DefaultStep,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Step < 0 {
		return fmt.Errorf("step must be non-negative, got %f", c.Step)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("scenario %q has no bodies", c.Name)
	}
	for i, b := range c.Bodies {
		if b.Extents.X <= 0 || b.Extents.Y <= 0 || b.Extents.Z <= 0 {
			return fmt.Errorf("body %d: extents must be positive, got %+v", i, b.Extents)
		}
		if b.Bounce < 0 || b.Bounce > 1 || b.Slide < 0 || b.Slide > 1 {
			return fmt.Errorf("body %d: bounce and slide must be in [0,1]", i)
		}
	}
	return nil
}

// Build constructs a world and its bodies from the scenario.
func (c *Config) Build(opts ...phys.Option) (*phys.World, []*phys.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if c.Step > 0 {
		opts = append(opts, phys.WithStep(c.Step))
	}
	if c.Relax > 0 {
		opts = append(opts, phys.WithRelaxationCap(c.Relax))
	}
	if c.Gravity != nil {
		opts = append(opts, phys.WithGravity(c.Gravity.Vec()))
	}
	w := phys.NewWorld(opts...)

	bodies := make([]*phys.Body, 0, len(c.Bodies))
	for i, bc := range c.Bodies {
		b, err := phys.NewBody(w, phys.BodyConfig{
			Position: vec.Pos{Vec: bc.Position.Vec(), Dim: bc.Dim},
			Velocity: bc.Velocity.Vec(),
			Extents:  bc.Extents.Vec(),
			Gravity:  bc.Gravity,
			Static:   bc.Static,
			Props:    phys.Properties{Bounce: bc.Bounce, Slide: bc.Slide},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return w, bodies, nil
}
