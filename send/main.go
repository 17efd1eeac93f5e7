// Command talon-send is the producing side of the Talon file exchange:
// each subcommand stages a single-command request for the consuming editor
// to pick up, except clear (deletes the pending request) and show-state
// (prints the latest response). It also manages the MCP server entries in
// config.toml.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codex-talon/talonbridge"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "talon-send",
		Short:         "Send commands to the Talon command bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSetBufferCmd(),
		newSetCursorCmd(),
		newClearCmd(),
		newStateCmd(),
		newShowStateCmd(),
		newNotifyCmd(),
		newHistoryPreviousCmd(),
		newHistoryNextCmd(),
		newEditPreviousCmd(),
		newMCPCmd(),
	)
	return root
}

// stageRequest overwrites the request file with a single-command batch and
// returns the path it was written to.
func stageRequest(command talonbridge.Command) (string, error) {
	paths, err := talonbridge.ResolvePaths()
	if err != nil {
		return "", err
	}
	req := &talonbridge.Request{Commands: []talonbridge.Command{command}}
	if err := talonbridge.WriteRequest(paths.Request, req); err != nil {
		return "", err
	}
	return paths.Request, nil
}

func newSetBufferCmd() *cobra.Command {
	var text string
	var cursor int
	cmd := &cobra.Command{
		Use:   "set-buffer",
		Short: "Replace the composer buffer (optional cursor)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := talonbridge.SetBuffer{Text: text}
			if cmd.Flags().Changed("cursor") {
				c := cursor
				command.Cursor = &c
			}
			path, err := stageRequest(command)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote request to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to populate the buffer with")
	cmd.Flags().IntVarP(&cursor, "cursor", "c", 0, "cursor offset within the new buffer")
	cmd.MarkFlagRequired("text")
	return cmd
}

func newSetCursorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-cursor <cursor>",
		Short: "Move the cursor to an absolute byte offset within the buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cursor, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid cursor %q: %w", args[0], err)
			}
			path, err := stageRequest(talonbridge.SetCursor{Cursor: cursor})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote request to %s\n", path)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear any pending request file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := talonbridge.ResolvePaths()
			if err != nil {
				return err
			}
			if err := talonbridge.RemoveRequest(paths.Request); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared request at %s\n", paths.Request)
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Stage a request for the editor to emit its current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := stageRequest(talonbridge.GetState{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested state via %s\n", path)
			return nil
		},
	}
}

func newShowStateCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show-state",
		Short: "Print the most recent response file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := talonbridge.ResolvePaths()
			if err != nil {
				return err
			}
			contents, err := os.ReadFile(paths.Response)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", paths.Response, err)
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), string(contents))
				return nil
			}
			var value any
			if err := json.Unmarshal(contents, &value); err != nil {
				return fmt.Errorf("failed to parse JSON from %s: %w", paths.Response, err)
			}
			pretty, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "emit raw JSON without pretty formatting")
	return cmd
}

func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify <message>",
		Short: "Stage a flash notification inside the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := stageRequest(talonbridge.Notify{Message: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested notification via %s\n", path)
			return nil
		},
	}
}

func newHistoryPreviousCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history-previous",
		Short: "Navigate to the previous entry in the composer history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := stageRequest(talonbridge.HistoryPrevious{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested history_previous via %s\n", path)
			return nil
		},
	}
}

func newHistoryNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history-next",
		Short: "Navigate to the next entry in the composer history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := stageRequest(talonbridge.HistoryNext{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested history_next via %s\n", path)
			return nil
		},
	}
}

func newEditPreviousCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit-previous [steps_back]",
		Short: "Prefill the composer by stepping back N entries in history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepsBack := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps_back %q: %w", args[0], err)
				}
				stepsBack = n
			}
			path, err := stageRequest(talonbridge.EditPreviousMessage{StepsBack: stepsBack})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requested edit_previous_message(%d) via %s\n", stepsBack, path)
			return nil
		},
	}
}
