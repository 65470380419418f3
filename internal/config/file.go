package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with string durations so the rendered file
// stays human-editable ("2m" instead of nanosecond integers).
type fileConfig struct {
	Tool struct {
		Command string `yaml:"command"`
		Timeout string `yaml:"timeout"`
	} `yaml:"tool"`
	Server struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

// fileHeader is prepended to generated config files.
const fileHeader = `# ruffyt configuration.
# Every setting is optional; remove a line to fall back to the default.
# Environment variables override this file (RUFFYT_TOOL_COMMAND, ...).
`

// RenderYAML renders the configuration as a commented YAML document,
// suitable for writing as the project's .ruffyt.yaml.
func (c *Config) RenderYAML() ([]byte, error) {
	var fc fileConfig
	fc.Tool.Command = c.Tool.Command
	fc.Tool.Timeout = c.Tool.Timeout.String()
	fc.Server.Addr = c.Server.Addr
	fc.Server.ShutdownTimeout = c.Server.ShutdownTimeout.String()
	fc.Log.Level = c.Log.Level
	fc.Log.JSON = c.Log.JSON

	body, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return append([]byte(fileHeader), body...), nil
}
