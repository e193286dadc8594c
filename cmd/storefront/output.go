package main

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

func isTerminal(v any) bool {
	if file, ok := v.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

func statusIcon(ok bool, w io.Writer) string {
	switch {
	case isTerminal(w) && ok:
		return "✓"
	case isTerminal(w):
		return "✗"
	case ok:
		return "[OK]"
	default:
		return "[XX]"
	}
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
