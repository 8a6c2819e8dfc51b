//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminalViewportWidth asks the terminal for its width in pixels. Many
// terminals leave the pixel fields zero; then cols*cellPx is used.
func terminalViewportWidth(cols int, cellPx float64) float64 {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws.Xpixel > 0 && int(ws.Col) == cols {
		return float64(ws.Xpixel)
	}
	return float64(cols) * cellPx
}
