package main

import "testing"

func TestFormatEnvDisplay(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		envVars []string
		want    string
	}{
		{"both empty", nil, nil, "-"},
		{"pairs only", map[string]string{"FOO": "bar", "BAZ": "qux"}, nil, "BAZ=qux, FOO=bar"},
		{"vars only", nil, []string{"PATH", "HOME"}, "$HOME, $PATH"},
		{"combined", map[string]string{"FOO": "bar"}, []string{"HOME", "PATH"}, "FOO=bar, $HOME, $PATH"},
	}
	for _, tt := range tests {
		if got := formatEnvDisplay(tt.env, tt.envVars); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
