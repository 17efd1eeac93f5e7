package talonbridge

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	talonDirName     = ".codex-talon"
	requestFilename  = "request.json"
	responseFilename = "response.json"
	configFilename   = "config.toml"
)

// EnvDir overrides the protocol directory location when set. Used by tests
// and by setups that keep the exchange directory outside the home.
const EnvDir = "CODEX_TALON_DIR"

// Paths holds the resolved on-disk locations the protocol exchanges
// documents through.
type Paths struct {
	// Dir is the protocol directory, normally ~/.codex-talon.
	Dir string
	// Request is the sender-owned, transient request document.
	Request string
	// Response is the consumer-owned, persistent response document.
	Response string
	// Config is the optional config.toml next to the exchange files.
	Config string
}

// ResolvePaths locates the protocol directory and creates it if absent.
// Resolution order: $CODEX_TALON_DIR > {home}/.codex-talon. Failing to
// determine the home directory or to create the directory is fatal to the
// caller; there is no way to proceed without writable storage.
func ResolvePaths() (Paths, error) {
	dir := os.Getenv(EnvDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("unable to locate home directory: %w", err)
		}
		dir = filepath.Join(home, talonDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return Paths{
		Dir:      dir,
		Request:  filepath.Join(dir, requestFilename),
		Response: filepath.Join(dir, responseFilename),
		Config:   filepath.Join(dir, configFilename),
	}, nil
}
