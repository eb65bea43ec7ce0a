package gateway

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete gateway configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Battle BattleSettings `hcl:"battle,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Addr     string `hcl:"addr,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// BattleSettings tunes the battle layer.
type BattleSettings struct {
	DBPath        string `hcl:"db_path,optional"`
	MinThinkingMs int    `hcl:"min_thinking_ms,optional"`
	MaxThinkingMs int    `hcl:"max_thinking_ms,optional"`
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Battle: BattleSettings{
			DBPath:        "cardclash.db",
			MinThinkingMs: 2000,
			MaxThinkingMs: 4000,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Addr == "" {
		config.Server.Addr = defaults.Server.Addr
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Battle.DBPath == "" {
		config.Battle.DBPath = defaults.Battle.DBPath
	}
	if config.Battle.MinThinkingMs == 0 {
		config.Battle.MinThinkingMs = defaults.Battle.MinThinkingMs
	}
	if config.Battle.MaxThinkingMs == 0 {
		config.Battle.MaxThinkingMs = defaults.Battle.MaxThinkingMs
	}

	return &config, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Battle.MinThinkingMs < 0 || c.Battle.MaxThinkingMs < c.Battle.MinThinkingMs {
		return fmt.Errorf("invalid thinking delay bounds [%d,%d]", c.Battle.MinThinkingMs, c.Battle.MaxThinkingMs)
	}
	return nil
}

// MinThinkingDelay returns the lower thinking-delay bound as a duration.
func (c *Config) MinThinkingDelay() time.Duration {
	return time.Duration(c.Battle.MinThinkingMs) * time.Millisecond
}

// MaxThinkingDelay returns the upper thinking-delay bound as a duration.
func (c *Config) MaxThinkingDelay() time.Duration {
	return time.Duration(c.Battle.MaxThinkingMs) * time.Millisecond
}
