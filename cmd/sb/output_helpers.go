package main

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/term"
)

const defaultTerminalWidth = 80

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// terminalWidth returns the width of stdout, or a default when stdout is not
// a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
