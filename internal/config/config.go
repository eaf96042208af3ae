package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MCP transports accepted by the demo.
const (
	MCPOff   = "off"
	MCPStdio = "stdio"
	MCPSSE   = "sse"
)

// Config represents the demo configuration file (tweak.yaml).
type Config struct {
	// Port serves the HTTP panel. 0 disables it.
	Port int `yaml:"port" json:"port"`
	// FPS is the frame rate of the demo loop.
	FPS int `yaml:"fps" json:"fps"`
	// Frames stops the loop after this many frames. 0 runs until interrupted.
	Frames int `yaml:"frames" json:"frames"`

	// Decl is an optional declaration file (see tweak gen) whose windows are
	// declared at startup and drawn every frame next to the built-in ones.
	Decl string `yaml:"decl" json:"decl"`

	MCP     string `yaml:"mcp" json:"mcp"`
	MCPPort int    `yaml:"mcp_port" json:"mcp_port"`

	LogLevel string `yaml:"log_level" json:"log_level"`
	// Style is the glamour style of the terminal panel; empty auto-detects.
	Style string `yaml:"style" json:"style"`
	// Quiet disables the terminal panel.
	Quiet bool `yaml:"quiet" json:"quiet"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Port:     8080,
		FPS:      30,
		MCP:      MCPOff,
		MCPPort:  8081,
		LogLevel: "info",
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.FPS < 1 || c.FPS > 1000 {
		errs = append(errs, fmt.Errorf("fps %d must be between 1 and 1000", c.FPS))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d must not be negative", c.Frames))
	}
	switch c.MCP {
	case MCPOff, MCPStdio:
	case MCPSSE:
		if c.MCPPort <= 0 || c.MCPPort > 65535 {
			errs = append(errs, fmt.Errorf("mcp_port %d out of range", c.MCPPort))
		}
		if c.MCPPort == c.Port {
			errs = append(errs, fmt.Errorf("mcp_port and port are both %d", c.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mcp transport %q (want off, stdio or sse)", c.MCP))
	}
	return errors.Join(errs...)
}
