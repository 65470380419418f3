// Package config provides configuration data structures for ruffyt.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete ruffyt configuration loaded from .ruffyt.yaml.
type Config struct {
	Tool   ToolConfig   `yaml:"tool"   json:"tool"   mapstructure:"tool"`
	Server ServerConfig `yaml:"server" json:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log"    json:"log"    mapstructure:"log"`
}

// ToolConfig configures the package-listing tool invocation.
type ToolConfig struct {
	// Command is the full command line used to list outdated packages.
	// It must emit a JSON array of {name, version, latest_version} objects.
	Command string `yaml:"command" json:"command" mapstructure:"command"`
	// Timeout bounds the subprocess run (default: 2m).
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// ServerConfig configures the API server started by "ruffyt serve".
type ServerConfig struct {
	// Addr is the listen address (default: ":8080").
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`
	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info).
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// JSON switches log output to JSON format (default: false).
	JSON bool `yaml:"json" json:"json" mapstructure:"json"`
}

// Default values.
const (
	DefaultToolCommand     = "uv pip list --outdated --format json"
	DefaultToolTimeout     = 2 * time.Minute
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Command: DefaultToolCommand,
			Timeout: DefaultToolTimeout,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			JSON:  false,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
// This is used after loading config from file to fill in missing values.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Tool.Command == "" {
		c.Tool.Command = defaults.Tool.Command
	}
	if c.Tool.Timeout == 0 {
		c.Tool.Timeout = defaults.Tool.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Tool.Command == "" {
		errs = append(errs, &ValidationError{Field: "tool.command", Message: "must not be empty"})
	}
	if c.Tool.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "tool.timeout", Message: "must be non-negative"})
	}

	if c.Server.Addr == "" {
		errs = append(errs, &ValidationError{Field: "server.addr", Message: "must not be empty"})
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "server.shutdown_timeout", Message: "must be non-negative"})
	}

	if c.Log.Level != "" {
		switch c.Log.Level {
		case "debug", "info", "warn", "warning", "error":
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "log.level",
				Message: fmt.Sprintf("unknown level %q, must be 'debug', 'info', 'warn', or 'error'", c.Log.Level),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
