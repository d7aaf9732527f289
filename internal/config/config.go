// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package config loads and validates SessionScope configuration via
// Koanf v2 with layered sources (highest priority wins):
//
//  1. Environment variables (HTTP_PORT, DUCKDB_PATH, VIDEO_MODEL_PATH, ...)
//  2. Config file (config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Models   ModelsConfig   `koanf:"models"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed origins for the extension and local dev
	// pages. "*" is acceptable in development.
	CORSOrigins []string `koanf:"cors_origins"`

	// IngestRateLimit caps POST /events/ingest requests per client IP per
	// minute. 0 disables rate limiting.
	IngestRateLimit int `koanf:"ingest_rate_limit"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ModelsConfig locates the two pre-trained model artifacts. Both are
// required: the process refuses to start with a missing model rather than
// silently falling back.
type ModelsConfig struct {
	VideoPath    string `koanf:"video_path"`
	NonVideoPath string `koanf:"nonvideo_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Defaults load
// first, then the config file, then environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			IngestRateLimit: 600,
		},
		Database: DatabaseConfig{
			Path:      "/data/sessionscope.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Models: ModelsConfig{
			VideoPath:    "ml/xgb_video.model",
			NonVideoPath: "ml/xgb_nonvideo.model",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks configuration invariants after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Models.VideoPath == "" {
		return fmt.Errorf("models.video_path must not be empty")
	}
	if c.Models.NonVideoPath == "" {
		return fmt.Errorf("models.nonvideo_path must not be empty")
	}
	if c.Server.IngestRateLimit < 0 {
		return fmt.Errorf("server.ingest_rate_limit must not be negative, got %d", c.Server.IngestRateLimit)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
