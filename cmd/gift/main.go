// Package main is the gift command-line client.
//
// It drives the same engine as the MCP and HTTP servers: tasks, recurring
// goals, moments, AI videos and warmth, stored in the backend chosen by
// GIFT_STORAGE_BACKEND.
//
// Exit codes:
//   - 0: Success
//   - 1: Error (bad arguments, unknown id, storage failure)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/JamesPrial/gift-tracker/internal/ui"
)

// run executes the CLI with args and returns an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
