// Package apply interprets Talon command batches against an editor state.
// It is the deterministic core of the protocol: given the same state and
// the same commands, the live consumer and the offline simulator produce
// the same post-state, labels, and status.
package apply

import (
	"github.com/codex-talon/talonbridge"
)

// Frontend receives the command effects that fall outside the editor
// state: notifications and history-navigation intents. The live consumer
// routes these into its presentation layer; harnesses use NopFrontend.
type Frontend interface {
	Notify(message string)
	EditPreviousMessage(stepsBack int)
	HistoryPrevious()
	HistoryNext()
}

// NopFrontend discards every effect.
type NopFrontend struct{}

func (NopFrontend) Notify(string)           {}
func (NopFrontend) EditPreviousMessage(int) {}
func (NopFrontend) HistoryPrevious()        {}
func (NopFrontend) HistoryNext()            {}

// Apply runs commands against state strictly in input order and returns
// one effect label per command. A well-formed command never fails; all
// failure belongs to the parsing and I/O stages. The cursor is re-clamped
// around every command because the starting state may come from an
// externally edited file.
func Apply(state *talonbridge.EditorState, commands []talonbridge.Command, frontend Frontend) []string {
	if frontend == nil {
		frontend = NopFrontend{}
	}
	state.ClampCursor()
	applied := make([]string, 0, len(commands))
	for _, command := range commands {
		switch c := command.(type) {
		case talonbridge.SetBuffer:
			state.Buffer = c.Text
			if c.Cursor != nil {
				state.Cursor = *c.Cursor
			} else {
				state.Cursor = len(state.Buffer)
			}
			applied = append(applied, "set_buffer")
		case talonbridge.SetCursor:
			state.Cursor = c.Cursor
			applied = append(applied, "set_cursor")
		case talonbridge.GetState:
			// Snapshot intent only; every response carries the state anyway.
			applied = append(applied, "get_state")
		case talonbridge.Notify:
			frontend.Notify(c.Message)
			applied = append(applied, "notify")
		case talonbridge.EditPreviousMessage:
			frontend.EditPreviousMessage(c.StepsBack)
			applied = append(applied, "edit_previous_message")
		case talonbridge.HistoryPrevious:
			frontend.HistoryPrevious()
			applied = append(applied, "history_previous")
		case talonbridge.HistoryNext:
			frontend.HistoryNext()
			applied = append(applied, "history_next")
		}
		state.ClampCursor()
	}
	return applied
}

// Simulate runs one full processing cycle against an in-memory state and
// returns the response a live consumer would produce for the same inputs,
// timestamp excepted. A nil request means no request was pending. The
// initial state is never mutated.
func Simulate(initial talonbridge.EditorState, req *talonbridge.Request) *talonbridge.Response {
	state := initial
	state.ClampCursor()
	var applied []string
	if req != nil {
		applied = Apply(&state, req.Commands, NopFrontend{})
	}
	return talonbridge.NewResponse(state, applied, nil)
}
