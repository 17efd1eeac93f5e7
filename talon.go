// Package talonbridge defines the request/response types for the Talon
// command protocol. An external dictation client writes a request document
// to ~/.codex-talon/request.json; the consuming editor applies the commands
// to its composer and overwrites response.json with the outcome. The two
// files are the whole transport: there is no socket, no locking, and no
// direct process link between the two sides.
package talonbridge

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProtocolVersion is the fixed version stamped on every response.
const ProtocolVersion = 1

// Request is an ordered batch of commands. Insertion order is execution
// order; senders rely on it (a set_buffer followed by a set_cursor must
// move the cursor within the new buffer, not the old one).
type Request struct {
	Commands []Command
}

// Command is a single protocol command. The set is closed: every variant
// is a struct in this package and carries an unexported marker method, so
// consumers dispatch with a type switch that covers all of them.
type Command interface {
	// Tag returns the wire discriminator carried in the "type" field.
	Tag() string

	isCommand()
}

// SetBuffer replaces the entire composer buffer with Text. Cursor, when
// present, is the desired byte offset within the new buffer; when absent
// the cursor moves to the end of the new text.
type SetBuffer struct {
	Text   string `json:"text"`
	Cursor *int   `json:"cursor,omitempty"`
}

// SetCursor moves the cursor to an absolute byte offset within the buffer.
// Out-of-range offsets are clamped, never rejected.
type SetCursor struct {
	Cursor int `json:"cursor"`
}

// GetState asks the editor to emit its current state snapshot without
// mutating anything.
type GetState struct{}

// Notify posts a lightweight notification. The message is forwarded to the
// presentation layer and is not retained in the editor state.
type Notify struct {
	Message string `json:"message"`
}

// EditPreviousMessage asks the editor to prefill the composer by stepping
// back StepsBack entries in history. The traversal itself lives in the
// presentation layer; the protocol only records the intent.
type EditPreviousMessage struct {
	StepsBack int `json:"steps_back"`
}

// HistoryPrevious navigates to the previous composer history entry.
type HistoryPrevious struct{}

// HistoryNext navigates to the next composer history entry.
type HistoryNext struct{}

func (SetBuffer) Tag() string           { return "set_buffer" }
func (SetCursor) Tag() string           { return "set_cursor" }
func (GetState) Tag() string            { return "get_state" }
func (Notify) Tag() string              { return "notify" }
func (EditPreviousMessage) Tag() string { return "edit_previous_message" }
func (HistoryPrevious) Tag() string     { return "history_previous" }
func (HistoryNext) Tag() string         { return "history_next" }

func (SetBuffer) isCommand()           {}
func (SetCursor) isCommand()           {}
func (GetState) isCommand()            {}
func (Notify) isCommand()              {}
func (EditPreviousMessage) isCommand() {}
func (HistoryPrevious) isCommand()     {}
func (HistoryNext) isCommand()         {}

// UnmarshalJSON decodes the tagged envelope form. Unknown or missing
// fields within a known command fall back to their defaults; an
// unrecognized "type" tag fails the whole parse.
func (r *Request) UnmarshalJSON(data []byte) error {
	var doc struct {
		Commands []json.RawMessage `json:"commands"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	commands := make([]Command, 0, len(doc.Commands))
	for _, raw := range doc.Commands {
		command, err := unmarshalCommand(raw)
		if err != nil {
			return err
		}
		commands = append(commands, command)
	}
	r.Commands = commands
	return nil
}

// MarshalJSON writes the tagged envelope form the consumer parses.
func (r Request) MarshalJSON() ([]byte, error) {
	commands := make([]json.RawMessage, 0, len(r.Commands))
	for _, command := range r.Commands {
		raw, err := marshalCommand(command)
		if err != nil {
			return nil, err
		}
		commands = append(commands, raw)
	}
	return json.Marshal(struct {
		Commands []json.RawMessage `json:"commands"`
	}{Commands: commands})
}

func unmarshalCommand(raw json.RawMessage) (Command, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "set_buffer":
		var c SetBuffer
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "set_cursor":
		var c SetCursor
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "get_state":
		return GetState{}, nil
	case "notify":
		var c Notify
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "edit_previous_message":
		var c EditPreviousMessage
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case "history_previous":
		return HistoryPrevious{}, nil
	case "history_next":
		return HistoryNext{}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", probe.Type)
	}
}

func marshalCommand(command Command) (json.RawMessage, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(command.Tag())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}

// EditorState is the authoritative snapshot of the composer the commands
// act on. It is owned by the consuming editor; the simulator owns a copy
// for the duration of one invocation.
type EditorState struct {
	// Buffer is the composer text, byte-indexed.
	Buffer string `json:"buffer"`
	// Cursor is a byte offset into Buffer, always within [0, len(Buffer)].
	Cursor int `json:"cursor"`
	// IsTaskRunning reports whether the editor has an in-flight task.
	// Read-only from the protocol's perspective.
	IsTaskRunning bool `json:"is_task_running"`
	// TaskSummary describes the running task, when known.
	TaskSummary *string `json:"task_summary,omitempty"`
	// SessionID identifies the editor session. Opaque pass-through.
	SessionID *string `json:"session_id,omitempty"`
	// Cwd is the editor's working directory. Opaque pass-through.
	Cwd *string `json:"cwd,omitempty"`
}

// ClampCursor forces Cursor into [0, len(Buffer)]. Any state loaded from
// an externally editable file must be clamped before use, not assumed
// valid.
func (s *EditorState) ClampCursor() {
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor > len(s.Buffer) {
		s.Cursor = len(s.Buffer)
	}
}

// Status reports the outcome of one processing cycle.
type Status string

const (
	// StatusOk means at least one command was applied without error.
	StatusOk Status = "ok"
	// StatusNoRequest means no request was pending, or the pending request
	// held zero commands.
	StatusNoRequest Status = "no_request"
	// StatusError means the cycle failed; Response.Error carries the cause.
	StatusError Status = "error"
)

// Response describes the latest processing cycle. It is overwritten whole
// on every cycle; it is the most recent outcome, never a history.
type Response struct {
	// Version is always ProtocolVersion.
	Version int `json:"version"`
	// Status is derived from the applied labels and the error, see
	// NewResponse.
	Status Status `json:"status"`
	// State is the editor snapshot after applying all commands.
	State EditorState `json:"state"`
	// Applied holds one effect label per processed command, in input order.
	Applied []string `json:"applied,omitempty"`
	// Error holds the failure message when Status is "error".
	Error *string `json:"error,omitempty"`
	// TimestampMS is milliseconds since the Unix epoch, sampled when the
	// response was built.
	TimestampMS int64 `json:"timestamp_ms"`
}

// NewResponse assembles a response and derives its status: error when err
// is non-nil, no_request when nothing was applied, ok otherwise.
func NewResponse(state EditorState, applied []string, err error) *Response {
	resp := &Response{
		Version:     ProtocolVersion,
		Status:      StatusOk,
		State:       state,
		Applied:     applied,
		TimestampMS: time.Now().UnixMilli(),
	}
	switch {
	case err != nil:
		msg := err.Error()
		resp.Status = StatusError
		resp.Error = &msg
	case len(applied) == 0:
		resp.Status = StatusNoRequest
	}
	return resp
}
