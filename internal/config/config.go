// Package config holds the YAML configuration of the collision module.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/collide/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Mode selects which minimum translation vector search the collision system runs.
type Mode string

const (
	ModePlain       Mode = "plain"
	ModeContainment Mode = "containment"
)

type Config struct {
	Engine    EngineConfig    `json:"engine" yaml:"engine"`
	Collision CollisionConfig `json:"collision" yaml:"collision"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

type EngineConfig struct {
	Mode Mode `json:"mode" yaml:"mode"`
	// NormalizeAxes trades the classic unnormalized axes for overlap amounts in
	// world units.
	NormalizeAxes bool `json:"normalize_axes" yaml:"normalize_axes"`
}

type CollisionConfig struct {
	// Workers bounds concurrent pair checks per step. 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Mode: ModeContainment},
		Log:    LogConfig{Level: "info", Encoding: "json"},
	}
}

// Load decodes YAML from r on top of Default and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	switch c.Engine.Mode {
	case ModePlain, ModeContainment:
	default:
		return fmt.Errorf("%w: unknown engine mode %q", ErrInvalidConfig, c.Engine.Mode)
	}
	if c.Collision.Workers < 0 {
		return fmt.Errorf("%w: collision workers must not be negative, got %d", ErrInvalidConfig, c.Collision.Workers)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Encoding) {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unknown log encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	return nil
}

// LogOptions converts the log section into logger options. Call after Validate.
func (c *Config) LogOptions() log.Options {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.Options{Level: level, Encoding: strings.ToLower(c.Log.Encoding)}
}
