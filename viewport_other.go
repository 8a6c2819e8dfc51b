//go:build !unix

package main

import (
	"os"

	"golang.org/x/term"
)

// terminalViewportWidth estimates the width in pixels from the column
// count; there is no portable way to ask for pixels here.
func terminalViewportWidth(cols int, cellPx float64) float64 {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		cols = w
	}
	return float64(cols) * cellPx
}
