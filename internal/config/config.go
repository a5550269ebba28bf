package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// Config represents the complete configuration for the stipple application.
// It includes settings for all commands (generate, batch, sheet, serve) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose"   yaml:"verbose"   json:"verbose"`

	// Code generation defaults
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate" json:"generate"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// GenerateConfig contains defaults for code generation.
type GenerateConfig struct {
	Format          string  `mapstructure:"format"           yaml:"format"           json:"format"`
	Style           string  `mapstructure:"style"            yaml:"style"            json:"style"`
	Size            int     `mapstructure:"size"             yaml:"size"             json:"size"`
	ErrorCorrection string  `mapstructure:"error_correction" yaml:"error_correction" json:"error_correction"`
	Foreground      string  `mapstructure:"foreground"       yaml:"foreground"       json:"foreground"`
	Background      string  `mapstructure:"background"       yaml:"background"       json:"background"`
	Secondary       string  `mapstructure:"secondary"        yaml:"secondary"        json:"secondary"`
	Tertiary        string  `mapstructure:"tertiary"         yaml:"tertiary"         json:"tertiary"`
	StripHeight     int     `mapstructure:"strip_height"     yaml:"strip_height"     json:"strip_height"`
	LogoFraction    float64 `mapstructure:"logo_fraction"    yaml:"logo_fraction"    json:"logo_fraction"`
	MosaicCells     int     `mapstructure:"mosaic_cells"     yaml:"mosaic_cells"     json:"mosaic_cells"`
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory" json:"directory"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite" json:"overwrite"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"             yaml:"host"             json:"host"`
	Port            int    `mapstructure:"port"             yaml:"port"             json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"      yaml:"cors_origin"      json:"cors_origin"`
	MaxBodyKB       int    `mapstructure:"max_body_kb"      yaml:"max_body_kb"      json:"max_body_kb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"      json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RatePerMinute   int    `mapstructure:"rate_per_minute"  yaml:"rate_per_minute"  json:"rate_per_minute"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int  `mapstructure:"workers"           yaml:"workers"           json:"workers"`
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Generate: GenerateConfig{
			Format:          encode.FormatQR.String(),
			Style:           style.StyleStandard.String(),
			Size:            encode.DefaultSize,
			ErrorCorrection: "medium",
			Foreground:      "#000000",
			Background:      "#FFFFFF",
			StripHeight:     80,
			LogoFraction:    style.DefaultLogoFraction,
			MosaicCells:     style.DefaultMosaicCells,
		},
		Output: OutputConfig{
			Directory: ".",
			Overwrite: true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxBodyKB:       256,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			RatePerMinute:   0,
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: false,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Generate.Format != "" {
		if _, err := encode.ParseFormat(c.Generate.Format); err != nil {
			return fmt.Errorf("invalid generate.format: %w", err)
		}
	}
	if c.Generate.Style != "" {
		if _, err := style.ParseStyle(c.Generate.Style); err != nil {
			return fmt.Errorf("invalid generate.style: %w", err)
		}
	}
	if _, err := encode.ParseLevel(c.Generate.ErrorCorrection); err != nil {
		return fmt.Errorf("invalid generate.error_correction: %w", err)
	}
	if c.Generate.Size < 0 {
		return fmt.Errorf("generate.size must not be negative, got %d", c.Generate.Size)
	}
	if c.Generate.StripHeight < 0 {
		return fmt.Errorf("generate.strip_height must not be negative, got %d", c.Generate.StripHeight)
	}
	if c.Generate.LogoFraction < 0 || c.Generate.LogoFraction > 1 {
		return fmt.Errorf("generate.logo_fraction must be in [0, 1], got %g", c.Generate.LogoFraction)
	}
	if c.Generate.MosaicCells < 0 {
		return fmt.Errorf("generate.mosaic_cells must not be negative, got %d", c.Generate.MosaicCells)
	}
	for key, value := range map[string]string{
		"generate.foreground": c.Generate.Foreground,
		"generate.background": c.Generate.Background,
		"generate.secondary":  c.Generate.Secondary,
		"generate.tertiary":   c.Generate.Tertiary,
	} {
		if value == "" {
			continue
		}
		if _, err := style.ParseColor(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyKB <= 0 {
		return fmt.Errorf("server.max_body_kb must be positive, got %d", c.Server.MaxBodyKB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec)
	}
	if c.Server.RatePerMinute < 0 {
		return fmt.Errorf("server.rate_per_minute must not be negative, got %d", c.Server.RatePerMinute)
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
