package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zethra/wasp/bedlevel"
	"github.com/zethra/wasp/coord"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`

	// Addr is the bind address of the waspd HTTP server.
	Addr string `yaml:"addr"`

	StepsPerMM float64 `yaml:"steps_per_mm"`
	FeedRate   float64 `yaml:"feed_rate"`

	// Mesh holds probed bed points; three or more enable bed mesh
	// compensation.
	Mesh []MeshPoint `yaml:"mesh"`

	// MeshZero is the probed Z at the reference position. Offsets are
	// reported relative to it, so probing in absolute machine Z works.
	MeshZero float64 `yaml:"mesh_zero"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type MeshPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func defaultConfig() *Config {
	return &Config{
		Serial:     SerialConfig{Port: "/dev/ttyUSB0", Baud: 115200},
		Addr:       ":9091",
		StepsPerMM: 80,
		FeedRate:   1500,
	}
}

// loadConfig reads the YAML file at path over the defaults. An empty
// path returns the defaults as-is.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) meshPoints() []coord.Point {
	points := make([]coord.Point, len(c.Mesh))
	for i, p := range c.Mesh {
		points[i] = coord.Point{X: p.X, Y: p.Y, Z: p.Z}
	}
	return points
}

// buildMesh turns the configured probe points into an offsetter, or
// nil when no mesh is configured.
func (c *Config) buildMesh() (bedlevel.ZOffsetter, error) {
	if len(c.Mesh) == 0 {
		return nil, nil
	}
	mesh, err := bedlevel.NewMesh(bedlevel.Relative(c.MeshZero, c.meshPoints()))
	if err != nil {
		return nil, err
	}
	return mesh, nil
}
