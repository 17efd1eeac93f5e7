package talonbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio"
)

// ParseRequest parses a raw request document. Blank content means no
// request is pending and yields (nil, nil); malformed JSON or an unknown
// command tag is a parse error.
func ParseRequest(raw []byte) (*Request, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// ReadRequest reads the pending request at path. A missing file or blank
// content is not an error: there is simply no request.
func ReadRequest(path string) (*Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}
	return ParseRequest(raw)
}

// RemoveRequest deletes a consumed request file so it is not re-applied.
// Absence is success.
func RemoveRequest(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteRequest overwrites the request file with req as pretty-printed
// JSON. The replace is atomic so the consumer never observes a partial
// document.
func WriteRequest(path string, req *Request) error {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	if err := renameio.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write request to %s: %w", path, err)
	}
	return nil
}

// WriteResponse overwrites the response file with resp as pretty-printed
// JSON. Whole-document replace, never an append.
func WriteResponse(path string, resp *Response) error {
	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}
	if err := renameio.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write response to %s: %w", path, err)
	}
	return nil
}

// LoadState reads an editor state snapshot from path. The cursor is
// clamped on load; the file is externally editable and cannot be trusted
// to satisfy the invariant.
func LoadState(path string) (EditorState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return EditorState{}, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	var state EditorState
	if err := json.Unmarshal(raw, &state); err != nil {
		return EditorState{}, fmt.Errorf("failed to parse state JSON from %s: %w", path, err)
	}
	state.ClampCursor()
	return state, nil
}
