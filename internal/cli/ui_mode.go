package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// uiModeDecision is the outcome of choosing between the live table UI
// and plain text output.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a writer is backed by a TTY. Tests swap
// it out to script both branches.
var isTerminal = defaultIsTerminal

// resolveUIMode picks the output style for the run command. Verbose
// logging always wins over the live table, since the two would fight
// for the same screen.
func resolveUIMode(mode string, verbose bool, stdout io.Writer) (uiModeDecision, error) {
	if verbose {
		return uiModeDecision{}, nil
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return uiModeDecision{useLive: isTerminal(stdout)}, nil
	case "live":
		if !isTerminal(stdout) {
			return uiModeDecision{
				warning: "Live UI requested but stdout is not a TTY; falling back to plain output.",
			}, nil
		}
		return uiModeDecision{useLive: true}, nil
	case "plain":
		return uiModeDecision{}, nil
	default:
		return uiModeDecision{}, fmt.Errorf("unknown ui mode %q: want auto, live, or plain", mode)
	}
}

// defaultIsTerminal reports whether the writer exposes a terminal file
// descriptor. os.File satisfies the Fd interface, as do the fake TTYs
// used in tests.
func defaultIsTerminal(stdout io.Writer) bool {
	fder, ok := stdout.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(fder.Fd()))
}
