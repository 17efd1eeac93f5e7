package main

import (
	"sort"
	"strings"
)

// formatEnvDisplay builds a combined environment display string from a map
// of explicit key/value pairs and a list of passthrough env var names.
//
// Examples:
//   - env={FOO: bar}, envVars=[HOME, PATH] -> "FOO=bar, $HOME, $PATH"
//   - env empty, envVars=[HOME] -> "$HOME"
//   - both empty -> "-"
func formatEnvDisplay(env map[string]string, envVars []string) string {
	var parts []string

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, key+"="+env[key])
	}

	if len(envVars) > 0 {
		names := append([]string{}, envVars...)
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, "$"+name)
		}
	}

	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
