// Package config handles compiler configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidLimits = errors.New("config: invalid limits")
)

// Config holds all compiler settings.
type Config struct {
	Limits  Limits        `yaml:"limits"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
}

// Limits define the fixed capacities of the packed GPU buffer. Every value
// must match the array sizes declared by the shaders that consume it.
type Limits struct {
	MaxMeshes            int `yaml:"max_meshes"`
	MaxTrianglesPerMesh  int `yaml:"max_triangles_per_mesh"`
	MaxTrianglesPerChunk int `yaml:"max_triangles_per_chunk"`
}

// BuildConfig holds pipeline settings.
type BuildConfig struct {
	// Number of meshes optimized in parallel. Values <= 0 select the
	// number of available CPUs.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the capacities used by the reference shaders.
func Default() *Config {
	return &Config{
		Limits: DefaultLimits(),
		Build: BuildConfig{
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:   "notice",
			LogFile: "",
		},
	}
}

// DefaultLimits returns the default buffer capacities.
func DefaultLimits() Limits {
	return Limits{
		MaxMeshes:            10,
		MaxTrianglesPerMesh:  1486,
		MaxTrianglesPerChunk: 400,
	}
}

// MaxBufferSize is the largest packed scene buffer the compiler will lay
// out. Shaders address the buffer with 32-bit signed offsets.
const MaxBufferSize = math.MaxInt32

// Packed record sizes in bytes. These must stay in sync with packer.Layout.
const (
	packedTriangleSize = 160
	packedBoxSize      = 12 * packedTriangleSize
	packedHeaderSize   = 48
	packedChunks       = 8
)

// Validate ensures that all limits are positive, fit the int32 fields of
// the packed records and produce a buffer no larger than MaxBufferSize.
func (l Limits) Validate() error {
	for _, v := range []int{l.MaxMeshes, l.MaxTrianglesPerMesh, l.MaxTrianglesPerChunk} {
		if v <= 0 || v > math.MaxInt32 {
			return fmt.Errorf("%w: all limits must be in [1, %d]; got %+v", ErrInvalidLimits, math.MaxInt32, l)
		}
	}

	if _, ok := l.BufferSize(); !ok {
		return fmt.Errorf("%w: packed buffer for %+v exceeds %d bytes", ErrInvalidLimits, l, MaxBufferSize)
	}
	return nil
}

// BufferSize returns the size in bytes of the packed scene buffer for these
// limits. The second result is false if the size exceeds MaxBufferSize.
// Each limit must be in [1, math.MaxInt32].
func (l Limits) BufferSize() (int64, bool) {
	indices := (int64(l.MaxTrianglesPerChunk)*4 + 15) / 16 * 16
	chunk := packedHeaderSize + packedBoxSize + indices
	mesh := packedHeaderSize + packedBoxSize + packedChunks*chunk + int64(l.MaxTrianglesPerMesh)*packedTriangleSize
	if mesh > MaxBufferSize || int64(l.MaxMeshes) > MaxBufferSize/mesh {
		return 0, false
	}
	return int64(l.MaxMeshes) * mesh, true
}

// WorkerCount returns the effective number of build workers.
func (b BuildConfig) WorkerCount() int {
	if b.Workers <= 0 {
		return runtime.NumCPU()
	}
	return b.Workers
}

// Load loads configuration with priority: defaults < file. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := cfg.Limits.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Marshal returns the YAML representation of the config.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
