package talonbridge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollIntervalMS != 100 {
		t.Errorf("expected default poll interval 100, got %d", cfg.PollIntervalMS)
	}
	if cfg.ReplayGuardTTLMinutes != 10 {
		t.Errorf("expected default replay guard TTL 10, got %d", cfg.ReplayGuardTTLMinutes)
	}
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_file = \"/tmp/talond.log\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogFile != "/tmp/talond.log" {
		t.Errorf("expected log file preserved, got %q", cfg.LogFile)
	}
	if cfg.PollIntervalMS != 100 {
		t.Errorf("expected default poll interval applied, got %d", cfg.PollIntervalMS)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_interval_ms = [broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.PollIntervalMS = 250
	cfg.NotifyCommand = []string{"notify-send", "talon"}
	cfg.MCPServers = map[string]MCPServer{
		"docs": {
			Command: "docs-server",
			Args:    []string{"--port", "0"},
			Env:     map[string]string{"TOKEN": "x"},
			Enabled: true,
		},
		"search": {
			URL:               "https://example.com/mcp",
			BearerTokenEnvVar: "SEARCH_TOKEN",
			Enabled:           true,
		},
	}

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.PollIntervalMS != 250 {
		t.Errorf("expected poll interval 250, got %d", got.PollIntervalMS)
	}
	if len(got.NotifyCommand) != 2 || got.NotifyCommand[0] != "notify-send" {
		t.Errorf("unexpected notify command %v", got.NotifyCommand)
	}
	docs, ok := got.MCPServers["docs"]
	if !ok {
		t.Fatal("expected docs server present")
	}
	if docs.Command != "docs-server" || docs.Env["TOKEN"] != "x" || !docs.Enabled {
		t.Errorf("unexpected docs entry %+v", docs)
	}
	search, ok := got.MCPServers["search"]
	if !ok {
		t.Fatal("expected search server present")
	}
	if search.URL != "https://example.com/mcp" || search.BearerTokenEnvVar != "SEARCH_TOKEN" {
		t.Errorf("unexpected search entry %+v", search)
	}
}

func TestConfigDurations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PollInterval().Milliseconds() != 100 {
		t.Errorf("unexpected poll interval %v", cfg.PollInterval())
	}
	if cfg.ReplayGuardTTL().Minutes() != 10 {
		t.Errorf("unexpected replay guard TTL %v", cfg.ReplayGuardTTL())
	}
}
