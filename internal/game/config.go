package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SniperPoolConfig sizes the shared sniper resource.
type SniperPoolConfig struct {
	Capacity float64 `yaml:"capacity"`
	Drain    float64 `yaml:"drain"` // per active sniper per second
	Regen    float64 `yaml:"regen"` // per second while no sniper is active
}

// Config holds engine tunables. Zero-valued YAML keys keep their defaults.
type Config struct {
	TPS              int              `yaml:"tps"`
	UnitRadius       float64          `yaml:"unit_radius"`
	BulletSpeed      float64          `yaml:"bullet_speed"`      // px per second
	BulletHitRadius  float64          `yaml:"bullet_hit_radius"` // px
	BulletRangeScale float64          `yaml:"bullet_range_scale"`
	BulletTime       float64          `yaml:"bullet_time"` // dt scale while a friendly unit snipes
	FormationMaxSpan int              `yaml:"formation_max_span"`
	Formation        string           `yaml:"formation"`
	SniperPool       SniperPoolConfig `yaml:"sniper_pool"`
}

// DefaultConfig returns the built-in tunables.
func DefaultConfig() Config {
	return Config{
		TPS:              60,
		UnitRadius:       6,
		BulletSpeed:      320,
		BulletHitRadius:  6,
		BulletRangeScale: 1.5,
		BulletTime:       1.0,
		FormationMaxSpan: 8,
		Formation:        "line",
		SniperPool: SniperPoolConfig{
			Capacity: 600,
			Drain:    60,
			Regen:    20,
		},
	}
}

// LoadConfig reads an engine config file and merges it onto the defaults.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read engine config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes an engine config document over DefaultConfig.
// Unknown keys are rejected. An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.TPS <= 0 {
		errs = append(errs, errors.New("tps must be positive"))
	}
	if c.BulletSpeed <= 0 {
		errs = append(errs, errors.New("bullet_speed must be positive"))
	}
	if c.BulletHitRadius < 0 || c.UnitRadius < 0 {
		errs = append(errs, errors.New("radii must not be negative"))
	}
	if c.BulletRangeScale < 1 {
		errs = append(errs, errors.New("bullet_range_scale must be at least 1"))
	}
	if c.BulletTime <= 0 || c.BulletTime > 1 {
		errs = append(errs, errors.New("bullet_time must be in (0,1]"))
	}
	if c.FormationMaxSpan < 1 {
		errs = append(errs, errors.New("formation_max_span must be at least 1"))
	}
	if _, err := ParseFormation(c.Formation); err != nil {
		errs = append(errs, err)
	}
	if c.SniperPool.Capacity < 0 || c.SniperPool.Drain < 0 || c.SniperPool.Regen < 0 {
		errs = append(errs, errors.New("sniper_pool values must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid engine config: %w", errors.Join(errs...))
	}
	return nil
}

// TickDT is the fixed timestep for headless runs.
func (c Config) TickDT() float64 { return 1.0 / float64(c.TPS) }
