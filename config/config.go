// Package config loads a dispatcher topology from YAML: per-scope
// thresholds plus a list of destinations with their formats.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/destination/console"
	"github.com/logfan/logfan/destination/file"
	"github.com/logfan/logfan/destination/zapdest"
	"github.com/logfan/logfan/dispatch"
	"github.com/logfan/logfan/formatter"
)

// Config is the YAML document root.
type Config struct {
	// Scopes maps scope names to threshold strings ("warning",
	// "error|info", "all", ...).
	Scopes       map[string]string   `yaml:"scopes"`
	Destinations []DestinationConfig `yaml:"destinations"`
}

// DestinationConfig describes one destination binding.
type DestinationConfig struct {
	// Type is "console", "file", or "zap".
	Type string `yaml:"type"`
	// Threshold gates delivery for this destination (default: "all").
	Threshold string `yaml:"threshold"`
	// Format is "text", "json", or "none" for raw messages
	// (default: "text"; zap destinations always use "none").
	Format string `yaml:"format"`
	// Timestamp overrides the formatter's timestamp layout.
	Timestamp string `yaml:"timestamp"`
	// ShowOrigin includes file:line in formatted output.
	ShowOrigin bool `yaml:"show_origin"`
	// ShowGoroutine includes the goroutine id in formatted output.
	ShowGoroutine bool `yaml:"show_goroutine"`
	// Name overrides the destination name.
	Name string `yaml:"name"`

	// Console options.
	Stderr bool `yaml:"stderr"`

	// File options.
	Path              string `yaml:"path"`
	MaxSizeBytes      int64  `yaml:"max_size_bytes"`
	MaxBackups        int    `yaml:"max_backups"`
	MaxAgeSec         int    `yaml:"max_age_sec"`
	RotateIntervalSec int    `yaml:"rotate_interval_sec"`
	Compress          bool   `yaml:"compress"`

	// Zap options. Preset is "production" or "development"
	// (default: "production").
	Preset string `yaml:"preset"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	var other *ValidationError
	return errors.As(target, &other)
}

// Load reads, parses, and validates a configuration from disk.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a configuration from r. Unknown YAML
// fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for semantic correctness.
func (c *Config) Validate() error {
	problems := make([]string, 0)

	for name, lvl := range c.Scopes {
		if _, err := core.ParseLevel(lvl); err != nil {
			problems = append(problems, fmt.Sprintf("scope %q: %v", name, err))
		}
	}

	for i := range c.Destinations {
		for _, p := range c.Destinations[i].validate() {
			problems = append(problems, fmt.Sprintf("destination[%d]: %s", i, p))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (d *DestinationConfig) validate() []string {
	var problems []string

	switch d.Type {
	case "console":
	case "file":
		if strings.TrimSpace(d.Path) == "" {
			problems = append(problems, "path is required for file destinations")
		}
		if d.MaxSizeBytes < 0 {
			problems = append(problems, "max_size_bytes must not be negative")
		}
		if d.MaxBackups < 0 {
			problems = append(problems, "max_backups must not be negative")
		}
	case "zap":
		switch d.Preset {
		case "", "production", "development":
		default:
			problems = append(problems, fmt.Sprintf("unknown zap preset %q", d.Preset))
		}
	case "":
		problems = append(problems, "type is required")
	default:
		problems = append(problems, fmt.Sprintf("unknown type %q", d.Type))
	}

	if d.Threshold != "" {
		if _, err := core.ParseLevel(d.Threshold); err != nil {
			problems = append(problems, err.Error())
		}
	}

	switch d.Format {
	case "", "text", "json", "none":
	default:
		problems = append(problems, fmt.Sprintf("unknown format %q", d.Format))
	}

	return problems
}

// Build constructs a dispatcher from a validated configuration. On
// error, destinations opened so far are closed.
func Build(cfg *Config, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	disp := dispatch.New(opts...)

	for name, lvl := range cfg.Scopes {
		parsed, err := core.ParseLevel(lvl)
		if err != nil {
			disp.Close()
			return nil, fmt.Errorf("scope %q: %w", name, err)
		}
		disp.SetThreshold(name, parsed)
	}

	for i := range cfg.Destinations {
		dc := &cfg.Destinations[i]

		threshold := core.LevelAll
		if dc.Threshold != "" {
			parsed, err := core.ParseLevel(dc.Threshold)
			if err != nil {
				disp.Close()
				return nil, fmt.Errorf("destination[%d]: %w", i, err)
			}
			threshold = parsed
		}

		dest, err := buildDestination(dc)
		if err != nil {
			disp.Close()
			return nil, fmt.Errorf("destination[%d]: %w", i, err)
		}
		disp.AddDestination(dest, threshold, buildFormatter(dc))
	}

	return disp, nil
}

func buildDestination(dc *DestinationConfig) (dispatch.Destination, error) {
	switch dc.Type {
	case "console":
		w := os.Stdout
		if dc.Stderr {
			w = os.Stderr
		}
		return console.New(console.Config{Writer: w, Name: dc.Name}), nil
	case "file":
		return file.New(file.Config{
			Path:           dc.Path,
			Name:           dc.Name,
			MaxSize:        dc.MaxSizeBytes,
			MaxAge:         time.Duration(dc.MaxAgeSec) * time.Second,
			RotateInterval: time.Duration(dc.RotateIntervalSec) * time.Second,
			MaxBackups:     dc.MaxBackups,
			Compress:       dc.Compress,
		})
	case "zap":
		var logger *zap.Logger
		var err error
		if dc.Preset == "development" {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return nil, err
		}
		return zapdest.New(logger), nil
	default:
		return nil, fmt.Errorf("unknown type %q", dc.Type)
	}
}

// buildFormatter returns nil for "none", which delivers raw messages.
// Zap destinations render through zap's own encoders, so they never
// get a pipeline formatter.
func buildFormatter(dc *DestinationConfig) dispatch.Formatter {
	if dc.Type == "zap" || dc.Format == "none" {
		return nil
	}
	fcfg := formatter.Config{
		TimestampFormat: dc.Timestamp,
		ShowOrigin:      dc.ShowOrigin,
		ShowGoroutine:   dc.ShowGoroutine,
	}
	if dc.Format == "json" {
		return formatter.NewJSON(fcfg)
	}
	return formatter.NewText(fcfg)
}
