package talonbridge

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
)

// Config is the optional configuration stored at ~/.codex-talon/config.toml.
// It tunes the consuming daemon and holds the MCP server entries managed
// by `talon-send mcp`.
type Config struct {
	// PollIntervalMS is how often the daemon checks for a new request file.
	PollIntervalMS int `toml:"poll_interval_ms"`
	// LogFile, when set, receives a copy of the daemon's log output.
	LogFile string `toml:"log_file,omitempty"`
	// NotifyCommand, when set, is executed with the notification message
	// appended as the final argument.
	NotifyCommand []string `toml:"notify_command,omitempty"`
	// ReplayGuardTTLMinutes bounds how long a request that could not be
	// deleted after processing is remembered before it may be applied again.
	ReplayGuardTTLMinutes int `toml:"replay_guard_ttl_minutes"`
	// MCPServers holds configured MCP server launcher entries, keyed by name.
	MCPServers map[string]MCPServer `toml:"mcp_servers,omitempty"`
}

// MCPServer is one configured MCP server launcher. Exactly one of Command
// (stdio transport) or URL (streamable HTTP transport) is set.
type MCPServer struct {
	Command           string            `toml:"command,omitempty"`
	Args              []string          `toml:"args,omitempty"`
	Env               map[string]string `toml:"env,omitempty"`
	EnvVars           []string          `toml:"env_vars,omitempty"`
	URL               string            `toml:"url,omitempty"`
	BearerTokenEnvVar string            `toml:"bearer_token_env_var,omitempty"`
	Enabled           bool              `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMS:        100,
		ReplayGuardTTLMinutes: 10,
	}
}

// LoadConfig loads the config file at path, or returns defaults if it does
// not exist.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = defaults.PollIntervalMS
	}
	if cfg.ReplayGuardTTLMinutes <= 0 {
		cfg.ReplayGuardTTLMinutes = defaults.ReplayGuardTTLMinutes
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, replacing the file atomically.
func SaveConfig(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ReplayGuardTTL returns the replay guard TTL as a duration.
func (c *Config) ReplayGuardTTL() time.Duration {
	return time.Duration(c.ReplayGuardTTLMinutes) * time.Minute
}
