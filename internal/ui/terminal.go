package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorEnabled reports whether ANSI colors should be written to f.
// NO_COLOR wins over CLICOLOR_FORCE=1, which wins over CLICOLOR=0;
// otherwise color follows whether f is a terminal.
func ColorEnabled(f *os.File) bool {
	switch {
	case os.Getenv("NO_COLOR") != "": // https://no-color.org
		return false
	case strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1":
		return true
	case strings.TrimSpace(os.Getenv("CLICOLOR")) == "0":
		return false
	case f == nil:
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
