// Command talon-sim exercises the Talon command pipeline offline: it
// applies a request document to an initial editor state and emits the
// response a live consumer would produce, without a running editor and
// without touching the exchange directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"

	"github.com/codex-talon/talonbridge"
	"github.com/codex-talon/talonbridge/apply"
)

func main() {
	statePath := flag.String("state", "", "initial state JSON file (defaults to an empty buffer)")
	requestPath := flag.String("request", "", "request JSON file containing commands")
	outputPath := flag.String("output", "", "path to write the response JSON (defaults to stdout)")
	flag.Parse()

	if err := run(*statePath, *requestPath, *outputPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(statePath, requestPath, outputPath string, stdout io.Writer) error {
	if requestPath == "" {
		return fmt.Errorf("-request is required")
	}

	var state talonbridge.EditorState
	if statePath != "" {
		loaded, err := talonbridge.LoadState(statePath)
		if err != nil {
			return err
		}
		state = loaded
	}

	// Unlike the daemon, a missing request file here is an error: the
	// harness was invoked to process exactly this document.
	raw, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("failed to read request file %s: %w", requestPath, err)
	}
	req, err := talonbridge.ParseRequest(raw)
	if err != nil {
		return err
	}

	resp := apply.Simulate(state, req)
	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := renameio.WriteFile(outputPath, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write response to %s: %w", outputPath, err)
		}
		return nil
	}
	fmt.Fprintln(stdout, string(payload))
	return nil
}
