package talonbridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReadRequestMissingFile(t *testing.T) {
	req, err := ReadRequest(filepath.Join(t.TempDir(), "request.json"))
	if err != nil {
		t.Fatal(err)
	}
	if req != nil {
		t.Errorf("expected nil request for missing file, got %+v", req)
	}
}

func TestReadRequestBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	req, err := ReadRequest(path)
	if err != nil {
		t.Fatal(err)
	}
	if req != nil {
		t.Errorf("expected nil request for blank file, got %+v", req)
	}
}

func TestWriteReadRequestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	req := &Request{Commands: []Command{SetBuffer{Text: "hello"}}}
	if err := WriteRequest(path, req); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRequest(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(got.Commands))
	}
	if sb, ok := got.Commands[0].(SetBuffer); !ok || sb.Text != "hello" {
		t.Errorf("unexpected command %#v", got.Commands[0])
	}
}

func TestRemoveRequestMissingIsNoop(t *testing.T) {
	if err := RemoveRequest(filepath.Join(t.TempDir(), "request.json")); err != nil {
		t.Errorf("expected no error removing absent file, got %v", err)
	}
}

func TestWriteResponseOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.json")

	first := NewResponse(EditorState{Buffer: "old"}, []string{"set_buffer"}, nil)
	if err := WriteResponse(path, first); err != nil {
		t.Fatal(err)
	}
	second := NewResponse(EditorState{Buffer: "new", Cursor: 3}, []string{"set_buffer"}, nil)
	if err := WriteResponse(path, second); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Response
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.State.Buffer != "new" || got.State.Cursor != 3 {
		t.Errorf("expected latest response only, got %+v", got.State)
	}
}

func TestLoadStateClampsCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"buffer": "ab", "cursor": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}
	state, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if state.Cursor != 2 {
		t.Errorf("expected cursor clamped to 2, got %d", state.Cursor)
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	if _, err := LoadState(filepath.Join(t.TempDir(), "state.json")); err == nil {
		t.Error("expected error for missing state file")
	}
}
