package main

import (
	"io"
	"strings"
)

// restoreSequences turn off mouse reporting and leave the alternate screen.
var restoreSequences = []string{
	"\x1b[?1000l",
	"\x1b[?1002l",
	"\x1b[?1003l",
	"\x1b[?1004l",
	"\x1b[?1006l",
	"\x1b[?25h",
	"\x1b[?1049l",
	"\x1b[0m",
}

// restoreTerminal puts the terminal back into a usable state after the
// program exited abnormally.
func restoreTerminal(w io.Writer) {
	_, _ = io.WriteString(w, strings.Join(restoreSequences, "")+"\r\n")
}
