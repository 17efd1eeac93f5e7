package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codex-talon/talonbridge"
)

// newMCPCmd manages the MCP server launcher entries stored in the
// mcp_servers table of config.toml.
func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Manage configured MCP servers",
	}
	cmd.AddCommand(newMCPListCmd(), newMCPGetCmd(), newMCPAddCmd(), newMCPRemoveCmd())
	return cmd
}

func loadMCPConfig() (talonbridge.Paths, *talonbridge.Config, error) {
	paths, err := talonbridge.ResolvePaths()
	if err != nil {
		return talonbridge.Paths{}, nil, err
	}
	cfg, err := talonbridge.LoadConfig(paths.Config)
	if err != nil {
		return talonbridge.Paths{}, nil, err
	}
	return paths, cfg, nil
}

func newMCPListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured MCP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadMCPConfig()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.MCPServers))
			for name := range cfg.MCPServers {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()

			if asJSON {
				entries := make([]map[string]any, 0, len(names))
				for _, name := range names {
					entries = append(entries, mcpServerJSON(name, cfg.MCPServers[name]))
				}
				payload, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(payload))
				return nil
			}

			if len(names) == 0 {
				fmt.Fprintln(out, "No MCP servers configured yet. Try `talon-send mcp add my-tool -- my-command`.")
				return nil
			}

			var stdioRows, httpRows [][]string
			for _, name := range names {
				server := cfg.MCPServers[name]
				if server.URL != "" {
					envVar := server.BearerTokenEnvVar
					if envVar == "" {
						envVar = "-"
					}
					httpRows = append(httpRows, []string{name, server.URL, envVar, strconv.FormatBool(server.Enabled)})
					continue
				}
				argsDisplay := "-"
				if len(server.Args) > 0 {
					argsDisplay = strings.Join(server.Args, " ")
				}
				stdioRows = append(stdioRows, []string{name, server.Command, argsDisplay, formatEnvDisplay(server.Env, server.EnvVars)})
			}

			if len(stdioRows) > 0 {
				printTable(out, []string{"Name", "Command", "Args", "Env"}, stdioRows)
			}
			if len(stdioRows) > 0 && len(httpRows) > 0 {
				fmt.Fprintln(out)
			}
			if len(httpRows) > 0 {
				printTable(out, []string{"Name", "Url", "Bearer Token Env", "Enabled"}, httpRows)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the configured servers as JSON")
	return cmd
}

func newMCPGetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show details for a configured MCP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			_, cfg, err := loadMCPConfig()
			if err != nil {
				return err
			}
			server, ok := cfg.MCPServers[name]
			if !ok {
				return fmt.Errorf("no MCP server named %q found", name)
			}

			out := cmd.OutOrStdout()

			if asJSON {
				payload, err := json.MarshalIndent(mcpServerJSON(name, server), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(payload))
				return nil
			}

			fmt.Fprintln(out, name)
			fmt.Fprintf(out, "  enabled: %t\n", server.Enabled)
			if server.URL != "" {
				fmt.Fprintln(out, "  transport: streamable_http")
				fmt.Fprintf(out, "  url: %s\n", server.URL)
				envVar := server.BearerTokenEnvVar
				if envVar == "" {
					envVar = "-"
				}
				fmt.Fprintf(out, "  bearer_token_env_var: %s\n", envVar)
			} else {
				fmt.Fprintln(out, "  transport: stdio")
				fmt.Fprintf(out, "  command: %s\n", server.Command)
				argsDisplay := "-"
				if len(server.Args) > 0 {
					argsDisplay = strings.Join(server.Args, " ")
				}
				fmt.Fprintf(out, "  args: %s\n", argsDisplay)
				fmt.Fprintf(out, "  env: %s\n", formatEnvDisplay(server.Env, server.EnvVars))
			}
			fmt.Fprintf(out, "  remove: talon-send mcp remove %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the server configuration as JSON")
	return cmd
}

func newMCPAddCmd() *cobra.Command {
	var (
		url               string
		bearerTokenEnvVar string
		envPairs          []string
	)
	cmd := &cobra.Command{
		Use:   "add <name> [-- command args...]",
		Short: "Add an MCP server entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validateServerName(name); err != nil {
				return err
			}
			command := args[1:]

			if url == "" && len(command) == 0 {
				return fmt.Errorf("exactly one of --url or a command must be provided")
			}
			if url != "" && len(command) > 0 {
				return fmt.Errorf("exactly one of --url or a command must be provided")
			}
			if url == "" && bearerTokenEnvVar != "" {
				return fmt.Errorf("--bearer-token-env-var is only valid with --url")
			}
			if url != "" && len(envPairs) > 0 {
				return fmt.Errorf("--env is only valid with stdio servers")
			}

			server := talonbridge.MCPServer{Enabled: true}
			if url != "" {
				server.URL = url
				server.BearerTokenEnvVar = bearerTokenEnvVar
			} else {
				server.Command = command[0]
				server.Args = command[1:]
				if len(envPairs) > 0 {
					env := make(map[string]string, len(envPairs))
					for _, pair := range envPairs {
						key, value, err := parseEnvPair(pair)
						if err != nil {
							return err
						}
						env[key] = value
					}
					server.Env = env
				}
			}

			paths, cfg, err := loadMCPConfig()
			if err != nil {
				return err
			}
			if cfg.MCPServers == nil {
				cfg.MCPServers = make(map[string]talonbridge.MCPServer)
			}
			cfg.MCPServers[name] = server
			if err := talonbridge.SaveConfig(paths.Config, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added MCP server '%s'.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "URL for a streamable HTTP MCP server")
	cmd.Flags().StringVar(&bearerTokenEnvVar, "bearer-token-env-var", "", "environment variable to read for a bearer token")
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, "environment variable to set when launching the server (KEY=VALUE)")
	return cmd
}

func newMCPRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an MCP server entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validateServerName(name); err != nil {
				return err
			}
			paths, cfg, err := loadMCPConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.MCPServers[name]; !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No MCP server named '%s' found.\n", name)
				return nil
			}
			delete(cfg.MCPServers, name)
			if err := talonbridge.SaveConfig(paths.Config, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed MCP server '%s'.\n", name)
			return nil
		},
	}
}

func mcpServerJSON(name string, server talonbridge.MCPServer) map[string]any {
	var transport map[string]any
	if server.URL != "" {
		transport = map[string]any{
			"type":                 "streamable_http",
			"url":                  server.URL,
			"bearer_token_env_var": server.BearerTokenEnvVar,
		}
	} else {
		transport = map[string]any{
			"type":     "stdio",
			"command":  server.Command,
			"args":     server.Args,
			"env":      server.Env,
			"env_vars": server.EnvVars,
		}
	}
	return map[string]any{
		"name":      name,
		"enabled":   server.Enabled,
		"transport": transport,
	}
}

// printTable writes rows under headers with columns padded to the widest
// cell.
func printTable(out io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}

func parseEnvPair(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("environment entries must be in KEY=VALUE form")
	}
	return key, value, nil
}

func validateServerName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid server name %q (use letters, numbers, '-', '_')", name)
	}
	for _, r := range name {
		valid := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
		if !valid {
			return fmt.Errorf("invalid server name %q (use letters, numbers, '-', '_')", name)
		}
	}
	return nil
}
