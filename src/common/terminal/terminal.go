// Package terminal detects whether output goes to an interactive terminal
package terminal

import (
	"io"

	"golang.org/x/term"
)

// fdWriter is satisfied by *os.File
type fdWriter interface {
	Fd() uintptr
}

// IsTerminal returns true if w is backed by a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind w, or fallback
// when w is not a terminal.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(fdWriter)
	if !ok {
		return fallback
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return fallback
	}
	return cols
}

// ColorEnabled decides whether styled output should be written to w.
// mode is the output.color setting: "always", "never" or "auto".
func ColorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return IsTerminal(w)
	}
}
