package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/backbone81/record-log/internal/segment"
	"github.com/backbone81/record-log/internal/wal"
)

var ErrInvalidConfig = errors.New("invalid WAL configuration")

// Config represents the configuration of a write-ahead log.
type Config struct {
	// File is the path of the log file.
	File string `yaml:"file"`

	// SyncPolicy is one of "none", "immediate" or "periodic".
	SyncPolicy string `yaml:"sync_policy"`

	// SyncAfterFlushes is the number of flushed fragments after which the periodic sync policy syncs.
	SyncAfterFlushes int `yaml:"sync_after_flushes"`

	// SyncEvery is the interval in which the periodic sync policy syncs pending fragments.
	SyncEvery time.Duration `yaml:"sync_every"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		File:             "./wal",
		SyncPolicy:       segment.DefaultSyncPolicy.String(),
		SyncAfterFlushes: 100,
		SyncEvery:        10 * time.Millisecond,
	}
}

// LoadConfig loads configuration from the specified path. Settings missing from the file keep their default value.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // The path is given by the user on purpose.
	if err != nil {
		return nil, fmt.Errorf("reading the config file %q: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing the config file %q: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("the config file %q: %w", configPath, err)
	}
	return config, nil
}

// Validate reports the first setting which is not usable.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("%w: the file must not be empty", ErrInvalidConfig)
	}
	syncPolicyType, err := segment.ParseSyncPolicyType(c.SyncPolicy)
	if err != nil {
		return fmt.Errorf("%w: sync policy %q: %w", ErrInvalidConfig, c.SyncPolicy, err)
	}
	if syncPolicyType == segment.SyncPolicyTypePeriodic {
		if c.SyncAfterFlushes < 1 {
			return fmt.Errorf("%w: sync_after_flushes must be at least 1", ErrInvalidConfig)
		}
		if c.SyncEvery <= 0 {
			return fmt.Errorf("%w: sync_every must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// WriterOptions returns the options for creating a writer with the configured settings.
func (c *Config) WriterOptions() ([]wal.WriterOption, error) {
	syncPolicyType, err := segment.ParseSyncPolicyType(c.SyncPolicy)
	if err != nil {
		return nil, err
	}
	switch syncPolicyType {
	case segment.SyncPolicyTypeNone:
		return []wal.WriterOption{wal.WithSyncPolicyNone()}, nil
	case segment.SyncPolicyTypeImmediate:
		return []wal.WriterOption{wal.WithSyncPolicyImmediate()}, nil
	case segment.SyncPolicyTypePeriodic:
		return []wal.WriterOption{wal.WithSyncPolicyPeriodic(c.SyncAfterFlushes, c.SyncEvery)}, nil
	default:
		return nil, segment.ErrSyncPolicyUnsupported
	}
}
