package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

// defaultExportName is offered when no export path was given on the command line.
const defaultExportName = "typescript.txt"

// exportText writes text to path as plain UTF-8.
func exportText(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(text); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// export writes the page to a file, prompting for the name when none was
// configured.
func (e *Editor) export() {
	path := e.exportPath
	if path == "" {
		style := tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
		path = e.promptWithInitial("Export to: ", defaultExportName, style)
		if path == "" {
			e.message = "Export cancelled"
			return
		}
		if _, err := os.Stat(path); err == nil {
			if !e.promptYesNo(fmt.Sprintf("File '%s' exists. Overwrite?", filepath.Base(path))) {
				e.message = "Export cancelled"
				return
			}
		}
	}

	if err := exportText(path, e.buf.Text()); err != nil {
		log.Printf("export to %s: %v", path, err)
		e.message = "Export failed"
		return
	}
	log.Printf("exported %d characters to %s", e.buf.Len(), path)
	e.message = "Exported to " + filepath.Base(path)
}
