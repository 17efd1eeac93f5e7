package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codex-talon/talonbridge"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRequiresRequestPath(t *testing.T) {
	if err := run("", "", "", &bytes.Buffer{}); err == nil {
		t.Error("expected error without -request")
	}
}

func TestRunMissingRequestFileIsError(t *testing.T) {
	err := run("", filepath.Join(t.TempDir(), "request.json"), "", &bytes.Buffer{})
	if err == nil {
		t.Error("expected error for missing request file")
	}
}

func TestRunUnknownTagIsError(t *testing.T) {
	request := writeTempFile(t, "request.json", `{"commands": [{"type": "explode"}]}`)
	if err := run("", request, "", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown command tag")
	}
}

func TestRunDefaultStateToStdout(t *testing.T) {
	request := writeTempFile(t, "request.json", `{"commands": [{"type": "set_buffer", "text": "hello"}]}`)

	var out bytes.Buffer
	if err := run("", request, "", &out); err != nil {
		t.Fatal(err)
	}

	var resp talonbridge.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != talonbridge.StatusOk {
		t.Errorf("expected ok, got %s", resp.Status)
	}
	if resp.State.Buffer != "hello" || resp.State.Cursor != 5 {
		t.Errorf("unexpected state %+v", resp.State)
	}
}

func TestRunClampsLoadedState(t *testing.T) {
	state := writeTempFile(t, "state.json", `{"buffer": "ab", "cursor": 99}`)
	request := writeTempFile(t, "request.json", `{"commands": [{"type": "set_cursor", "cursor": 1}]}`)
	output := filepath.Join(t.TempDir(), "response.json")

	if err := run(state, request, output, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var resp talonbridge.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.State.Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", resp.State.Cursor)
	}
	if !strings.Contains(string(raw), `"applied"`) {
		t.Errorf("expected applied labels in output %s", raw)
	}
}

func TestRunPassesThroughMetadata(t *testing.T) {
	state := writeTempFile(t, "state.json", `{"buffer": "x", "cursor": 0, "session_id": "abc", "cwd": "/work"}`)
	request := writeTempFile(t, "request.json", `{"commands": [{"type": "get_state"}]}`)

	var out bytes.Buffer
	if err := run(state, request, "", &out); err != nil {
		t.Fatal(err)
	}
	var resp talonbridge.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.State.SessionID == nil || *resp.State.SessionID != "abc" {
		t.Errorf("expected session id passed through, got %v", resp.State.SessionID)
	}
	if resp.State.Cwd == nil || *resp.State.Cwd != "/work" {
		t.Errorf("expected cwd passed through, got %v", resp.State.Cwd)
	}
}

func TestRunEmptyCommandListIsNoRequest(t *testing.T) {
	request := writeTempFile(t, "request.json", `{"commands": []}`)

	var out bytes.Buffer
	if err := run("", request, "", &out); err != nil {
		t.Fatal(err)
	}
	var resp talonbridge.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != talonbridge.StatusNoRequest {
		t.Errorf("expected no_request, got %s", resp.Status)
	}
}
